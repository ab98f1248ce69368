package routing

import (
	"fmt"
	"testing"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticCandidates builds distinct routes with fixed metrics
func syntheticCandidates(metrics [][3]float64) []Candidate {
	candidates := make([]Candidate, 0, len(metrics))
	for i, m := range metrics {
		candidates = append(candidates, Candidate{
			Route: models.Route{fmt.Sprintf("S%d", i), fmt.Sprintf("D%d", i)},
			Eval: models.RouteEval{
				Valid:          true,
				TotalCost:      m[0],
				TotalTime:      m[1],
				TotalEmissions: m[2],
			},
		})
	}
	return candidates
}

func TestPreFilterCostPriority(t *testing.T) {
	// Min cost 100; the 3x window keeps 100 and 250, drops 400 and 900
	candidates := syntheticCandidates([][3]float64{
		{100, 10, 1},
		{250, 12, 1},
		{400, 8, 1},
		{900, 5, 1},
	})

	kept := PreFilter(candidates, models.PriorityCost)

	// Two survive the window, then the best dropped candidate tops up to 3
	require.Len(t, kept, 3)
	assert.Equal(t, candidates[0].Route.Key(), kept[0].Key())
	assert.Equal(t, candidates[1].Route.Key(), kept[1].Key())
	assert.Equal(t, candidates[2].Route.Key(), kept[2].Key())
}

func TestPreFilterTimePriority(t *testing.T) {
	candidates := syntheticCandidates([][3]float64{
		{100, 10, 1},
		{100, 19, 1},
		{100, 21, 1},
		{100, 50, 1},
	})

	kept := PreFilter(candidates, models.PriorityTime)

	// 2x window on the 10 hr minimum keeps 10 and 19, top-up adds 21
	require.Len(t, kept, 3)
	assert.Equal(t, candidates[2].Route.Key(), kept[2].Key())
}

func TestPreFilterEcoPriority(t *testing.T) {
	candidates := syntheticCandidates([][3]float64{
		{100, 10, 1},
		{100, 10, 7.9},
		{100, 10, 8.1},
		{100, 10, 2},
	})

	kept := PreFilter(candidates, models.PriorityEco)

	// 8x window on emissions drops only the 8.1 candidate, then top-up
	// is unnecessary
	require.Len(t, kept, 3)
	for _, route := range kept {
		assert.NotEqual(t, candidates[2].Route.Key(), route.Key())
	}
}

func TestPreFilterBalancedOrRule(t *testing.T) {
	// The second candidate is expensive and slow but clean, so the
	// emissions arm of the OR rule saves it
	candidates := syntheticCandidates([][3]float64{
		{100, 10, 5},
		{900, 40, 6},
		{100, 11, 5},
	})

	kept := PreFilter(candidates, models.PriorityBalanced)
	assert.Len(t, kept, 3)
}

func TestPreFilterEmpty(t *testing.T) {
	assert.Nil(t, PreFilter(nil, models.PriorityCost))
}

func TestBuildResultsRankingAndDedup(t *testing.T) {
	g := testGraph()
	evaluated := evaluateAll(g, testRoutes(), 1000, models.GoodsStandard)

	// Refined set holds a duplicate of the cheapest route
	refined := append([]Candidate{}, evaluated...)
	refined = append(refined, evaluated[0])

	options := BuildResults(g, refined, evaluated, models.PriorityCost)
	require.Len(t, options, 3)

	// Ascending by cost, duplicate collapsed
	keys := make(map[string]bool)
	for i := 1; i < len(options); i++ {
		assert.LessOrEqual(t, options[i-1].Data.TotalCost, options[i].Data.TotalCost)
	}
	for _, o := range options {
		assert.False(t, keys[o.Overview.Key()])
		keys[o.Overview.Key()] = true
	}
}

func TestBuildResultsTopUp(t *testing.T) {
	g := testGraph()
	evaluated := evaluateAll(g, testRoutes(), 1000, models.GoodsStandard)

	// Refinement collapsed everything onto a single route
	refined := []Candidate{evaluated[1], evaluated[1]}

	options := BuildResults(g, refined, evaluated, models.PriorityTime)
	require.Len(t, options, 3)

	// Fastest first after topping up from the evaluated set
	assert.Equal(t, evaluated[0].Route.Key(), options[0].Overview.Key())
}

func TestBuildResultsBalancedOrdering(t *testing.T) {
	candidates := syntheticCandidates([][3]float64{
		{100, 40, 5}, // cheap but slow
		{900, 10, 5}, // fast but expensive
		{450, 22, 1}, // middle of the road, cleanest
	})

	sortByPriority(candidates, models.PriorityBalanced)

	// 0.4/0.4/0.2 blend favors the middle candidate
	assert.Equal(t, "S2→D2", candidates[0].Route.Key())
}

func TestBuildResultsAttachesCoordinates(t *testing.T) {
	g := testGraph()
	evaluated := evaluateAll(g, testRoutes(), 1000, models.GoodsStandard)

	options := BuildResults(g, evaluated, evaluated, models.PriorityCost)
	require.NotEmpty(t, options)

	for _, option := range options {
		for _, leg := range option.Data.Legs {
			require.Len(t, leg.Coordinates, 2, "leg %s -> %s", leg.Start, leg.End)
		}
	}

	// Coordinates present latitude first, flipped from graph storage
	first := options[0].Data.Legs[0]
	assert.Equal(t, "Delhi", first.Start)
	assert.Equal(t, models.LatLon{28.7041, 77.1025}, first.Coordinates[0])
	assert.Equal(t, models.LatLon{28.5562, 77.1000}, first.Coordinates[1])
}

func TestBuildResultsEmptyRefined(t *testing.T) {
	g := testGraph()
	assert.Nil(t, BuildResults(g, nil, nil, models.PriorityCost))
}

func TestBalancedScoresDegenerateSpan(t *testing.T) {
	// Identical metrics normalize to zero rather than dividing by zero
	candidates := syntheticCandidates([][3]float64{
		{100, 10, 5},
		{100, 10, 5},
	})

	scores := balancedScores(candidates)
	for _, v := range scores {
		assert.InDelta(t, 0.0, v, 1e-9)
	}
}
