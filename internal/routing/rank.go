package routing

import (
	"log"
	"sort"

	"github.com/cargoroute/cargoroute_core/internal/geocode"
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
)

// ResultLimit is how many ranked options a plan returns
const ResultLimit = 3

// Pre-filter multipliers: a candidate survives when its metric stays
// within the multiple of the best observed value.
const (
	preFilterCostFactor      = 3.0
	preFilterTimeFactor      = 2.0
	preFilterEmissionsFactor = 8.0

	preFilterBalancedCost      = 5.0
	preFilterBalancedTime      = 3.0
	preFilterBalancedEmissions = 5.0
)

// Balanced ranking weights over normalized metrics
const (
	balancedWeightCost      = 0.4
	balancedWeightTime      = 0.4
	balancedWeightEmissions = 0.2
)

// PreFilter drops outlier candidates before optimization, keyed by the
// active priority. When filtering leaves fewer than ResultLimit routes,
// the best missing candidates under the same priority are added back.
func PreFilter(candidates []Candidate, priority models.Priority) []models.Route {
	if len(candidates) == 0 {
		return nil
	}

	minCost, minTime, minEmissions := metricMinimums(candidates)

	var kept []models.Route
	keptKeys := make(map[string]bool)
	keep := func(c Candidate) {
		kept = append(kept, c.Route)
		keptKeys[c.Route.Key()] = true
	}

	for _, c := range candidates {
		switch priority {
		case models.PriorityCost:
			if c.Eval.TotalCost <= minCost*preFilterCostFactor {
				keep(c)
			}
		case models.PriorityTime:
			if c.Eval.TotalTime <= minTime*preFilterTimeFactor {
				keep(c)
			}
		case models.PriorityEco:
			if c.Eval.TotalEmissions <= minEmissions*preFilterEmissionsFactor {
				keep(c)
			}
		default: // balanced
			if c.Eval.TotalCost <= minCost*preFilterBalancedCost ||
				c.Eval.TotalTime <= minTime*preFilterBalancedTime ||
				c.Eval.TotalEmissions <= minEmissions*preFilterBalancedEmissions {
				keep(c)
			}
		}
	}

	if len(kept) < ResultLimit {
		log.Println("Warning: too few routes after filtering, adding back candidates")
		missing := make([]Candidate, 0, len(candidates))
		for _, c := range candidates {
			if !keptKeys[c.Route.Key()] {
				missing = append(missing, c)
			}
		}
		sortByPriority(missing, priority)
		for _, c := range missing {
			if len(kept) >= ResultLimit {
				break
			}
			keep(c)
		}
	}

	return kept
}

// BuildResults ranks the refined candidates, deduplicates, tops up from
// the full evaluated set when too sparse, and attaches presentation
// coordinates to every leg.
func BuildResults(g *network.Graph, refined, allEvaluated []Candidate, priority models.Priority) []models.PlanOption {
	if len(refined) == 0 {
		return nil
	}

	ranked := make([]Candidate, len(refined))
	copy(ranked, refined)
	sortByPriority(ranked, priority)

	// Deduplicate by route identity, first occurrence wins
	var unique []Candidate
	seen := make(map[string]bool)
	for _, c := range ranked {
		key := c.Route.Key()
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}

	// Top up from the unoptimized candidates when refinement collapsed
	// the field
	if len(unique) < ResultLimit {
		topUp := make([]Candidate, len(allEvaluated))
		copy(topUp, allEvaluated)
		sortByPriority(topUp, priority)
		for _, c := range topUp {
			if len(unique) >= ResultLimit {
				break
			}
			key := c.Route.Key()
			if !seen[key] {
				seen[key] = true
				unique = append(unique, c)
			}
		}
	}

	// Re-sort the unique set so ordering stays monotone under the
	// priority metric (the balanced score is renormalized over this set)
	sortByPriority(unique, priority)

	if len(unique) > ResultLimit {
		unique = unique[:ResultLimit]
	}

	options := make([]models.PlanOption, 0, len(unique))
	for _, c := range unique {
		options = append(options, models.PlanOption{
			Overview: c.Route,
			Data:     attachCoordinates(g, c.Eval),
		})
	}
	return options
}

// sortByPriority orders candidates ascending under the active priority
// metric. Balanced uses the weighted normalized blend over the slice
// being sorted.
func sortByPriority(candidates []Candidate, priority models.Priority) {
	switch priority {
	case models.PriorityCost:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Eval.TotalCost < candidates[j].Eval.TotalCost
		})
	case models.PriorityTime:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Eval.TotalTime < candidates[j].Eval.TotalTime
		})
	case models.PriorityEco:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Eval.TotalEmissions < candidates[j].Eval.TotalEmissions
		})
	default:
		scores := balancedScores(candidates)
		sort.SliceStable(candidates, func(i, j int) bool {
			return scores[candidates[i].Route.Key()] < scores[candidates[j].Route.Key()]
		})
	}
}

// balancedScores computes the normalized 0.4/0.4/0.2 blend of cost, time,
// and emissions for each candidate. A degenerate span normalizes to 0.
func balancedScores(candidates []Candidate) map[string]float64 {
	if len(candidates) == 0 {
		return nil
	}

	minCost, minTime, minEmissions := metricMinimums(candidates)
	maxCost, maxTime, maxEmissions := metricMaximums(candidates)

	norm := func(v, min, max float64) float64 {
		if max <= min {
			return 0
		}
		return (v - min) / (max - min)
	}

	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		scores[c.Route.Key()] = balancedWeightCost*norm(c.Eval.TotalCost, minCost, maxCost) +
			balancedWeightTime*norm(c.Eval.TotalTime, minTime, maxTime) +
			balancedWeightEmissions*norm(c.Eval.TotalEmissions, minEmissions, maxEmissions)
	}
	return scores
}

func metricMinimums(candidates []Candidate) (minCost, minTime, minEmissions float64) {
	minCost = candidates[0].Eval.TotalCost
	minTime = candidates[0].Eval.TotalTime
	minEmissions = candidates[0].Eval.TotalEmissions
	for _, c := range candidates[1:] {
		if c.Eval.TotalCost < minCost {
			minCost = c.Eval.TotalCost
		}
		if c.Eval.TotalTime < minTime {
			minTime = c.Eval.TotalTime
		}
		if c.Eval.TotalEmissions < minEmissions {
			minEmissions = c.Eval.TotalEmissions
		}
	}
	return minCost, minTime, minEmissions
}

func metricMaximums(candidates []Candidate) (maxCost, maxTime, maxEmissions float64) {
	maxCost = candidates[0].Eval.TotalCost
	maxTime = candidates[0].Eval.TotalTime
	maxEmissions = candidates[0].Eval.TotalEmissions
	for _, c := range candidates[1:] {
		if c.Eval.TotalCost > maxCost {
			maxCost = c.Eval.TotalCost
		}
		if c.Eval.TotalTime > maxTime {
			maxTime = c.Eval.TotalTime
		}
		if c.Eval.TotalEmissions > maxEmissions {
			maxEmissions = c.Eval.TotalEmissions
		}
	}
	return maxCost, maxTime, maxEmissions
}

// attachCoordinates fills each leg's (lat, lon) endpoint pair from the
// graph's stored "lon,lat" node coordinates.
func attachCoordinates(g *network.Graph, eval models.RouteEval) models.RouteEval {
	for i := range eval.Legs {
		leg := &eval.Legs[i]

		startLoc, okStart := g.Node(leg.Start)
		endLoc, okEnd := g.Node(leg.End)
		if !okStart || !okEnd {
			continue
		}

		startLon, startLat, errStart := geocode.SplitCoords(startLoc.Coords)
		endLon, endLat, errEnd := geocode.SplitCoords(endLoc.Coords)
		if errStart != nil || errEnd != nil {
			log.Printf("Warning: missing coordinates for leg %s -> %s", leg.Start, leg.End)
			continue
		}

		leg.Coordinates = []models.LatLon{
			{startLat, startLon},
			{endLat, endLon},
		}
	}
	return eval
}
