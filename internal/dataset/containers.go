package dataset

import (
	"sort"

	"github.com/cargoroute/cargoroute_core/internal/models"
)

// ContainerAdvice is the result of classifying cargo against the
// container table for one transport mode.
type ContainerAdvice struct {
	ContainerType string  `json:"container_type"`
	CapacityKg    float64 `json:"capacity_kg"`
	Exceeded      bool    `json:"capacity_exceeded"`
}

// ClassifyContainer picks the smallest container of the given mode whose
// capacity covers the cargo weight. When no container is large enough it
// returns the biggest one with Exceeded set. The second return value is
// false when the table has no container for the mode at all.
func ClassifyContainer(specs []models.ContainerSpec, mode models.TransportMode, weightKg float64) (ContainerAdvice, bool) {
	var candidates []models.ContainerSpec
	for _, spec := range specs {
		if spec.Mode == mode {
			candidates = append(candidates, spec)
		}
	}
	if len(candidates) == 0 {
		return ContainerAdvice{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CapacityKg < candidates[j].CapacityKg
	})

	for _, spec := range candidates {
		if spec.CapacityKg >= weightKg {
			return ContainerAdvice{
				ContainerType: spec.ContainerType,
				CapacityKg:    spec.CapacityKg,
			}, true
		}
	}

	largest := candidates[len(candidates)-1]
	return ContainerAdvice{
		ContainerType: largest.ContainerType,
		CapacityKg:    largest.CapacityKg,
		Exceeded:      true,
	}, true
}
