package routing

import (
	"log"
	"math"
	"math/rand"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
)

const (
	optimizerSeed        = 42
	populationSize       = 100
	generations          = 50
	referencePartitions  = 12
	mutationProbability  = 0.1
	objectiveCount       = 3
)

// Candidate pairs a route with its evaluation
type Candidate struct {
	Route models.Route
	Eval  models.RouteEval
}

// OptimizeRoutes runs the reference-direction multi-objective selection
// stage over the candidate list. The decision variable is a single index
// into the list; the three minimized objectives are total cost, total
// time, and the goods-impact score (zero for standard cargo).
//
// The survivors of the final population are returned as evaluated
// candidates, unioned with any original candidate the sampling missed so
// good routes are never discarded by the optimizer itself. Output is
// deterministic for a fixed graph and candidate order.
func OptimizeRoutes(g *network.Graph, routes []models.Route, cargoWeightKg float64, goodsType models.GoodsType) []Candidate {
	if len(routes) == 0 {
		log.Println("No routes to optimize")
		return nil
	}

	// Evaluate every candidate once up front; the decision space is just
	// the index set
	evals := make([]models.RouteEval, len(routes))
	objectives := make([][objectiveCount]float64, len(routes))
	for i, route := range routes {
		evals[i] = EvaluateRoute(g, route, cargoWeightKg, goodsType)
		objectives[i] = [objectiveCount]float64{
			evals[i].TotalCost,
			evals[i].TotalTime,
			goodsObjective(evals[i], goodsType),
		}
	}

	refDirs := dasDennisDirections(referencePartitions)
	rng := rand.New(rand.NewSource(optimizerSeed))

	// Initial population of candidate indices
	population := make([]int, populationSize)
	for i := range population {
		population[i] = rng.Intn(len(routes))
	}

	for gen := 0; gen < generations; gen++ {
		offspring := make([]int, 0, populationSize)
		for len(offspring) < populationSize {
			parentA := tournamentSelect(population, objectives, rng)
			parentB := tournamentSelect(population, objectives, rng)

			child := parentA
			if rng.Float64() < 0.5 {
				child = parentB
			}
			if rng.Float64() < mutationProbability {
				child = rng.Intn(len(routes))
			}
			offspring = append(offspring, child)
		}

		combined := append(append([]int{}, population...), offspring...)
		population = selectNextGeneration(combined, objectives, refDirs, populationSize)
	}

	// Collect distinct surviving indices in candidate order
	selected := make(map[int]bool)
	for _, idx := range population {
		selected[idx] = true
	}

	var result []Candidate
	for i, route := range routes {
		if selected[i] {
			result = append(result, Candidate{Route: route, Eval: evals[i]})
		}
	}

	// Union with originals the sampling missed
	for i, route := range routes {
		if !selected[i] {
			result = append(result, Candidate{Route: route, Eval: evals[i]})
		}
	}

	return result
}

// goodsObjective is the third optimization objective: zero for standard
// cargo, the goods score otherwise.
func goodsObjective(eval models.RouteEval, goodsType models.GoodsType) float64 {
	if goodsType == models.GoodsStandard {
		return 0
	}
	return eval.GoodsTypeScore
}

// tournamentSelect picks the dominating index of a random pair, falling
// back to the first pick on mutual non-domination.
func tournamentSelect(population []int, objectives [][objectiveCount]float64, rng *rand.Rand) int {
	a := population[rng.Intn(len(population))]
	b := population[rng.Intn(len(population))]
	if dominates(objectives[b], objectives[a]) {
		return b
	}
	return a
}

// dominates reports Pareto domination: no objective worse, at least one
// strictly better.
func dominates(a, b [objectiveCount]float64) bool {
	better := false
	for i := 0; i < objectiveCount; i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// selectNextGeneration performs environmental selection: non-dominated
// sorting, then reference-point niching over the splitting front.
func selectNextGeneration(combined []int, objectives [][objectiveCount]float64, refDirs [][objectiveCount]float64, size int) []int {
	fronts := nonDominatedSort(combined, objectives)

	var next []int
	var splitting []int
	for _, front := range fronts {
		if len(next)+len(front) <= size {
			next = append(next, front...)
			continue
		}
		splitting = front
		break
	}

	if len(next) == size || len(splitting) == 0 {
		return next
	}

	// Normalize over the union of the accepted members and the splitting
	// front, then fill remaining slots by niche preservation
	pool := append(append([]int{}, next...), splitting...)
	ideal, nadir := objectiveBounds(pool, objectives)

	normalized := func(idx int) [objectiveCount]float64 {
		var f [objectiveCount]float64
		for i := 0; i < objectiveCount; i++ {
			span := nadir[i] - ideal[i]
			if span <= 0 {
				f[i] = 0
				continue
			}
			f[i] = (objectives[idx][i] - ideal[i]) / span
		}
		return f
	}

	// Niche counts from the already-accepted members
	nicheCount := make([]int, len(refDirs))
	for _, idx := range next {
		dir, _ := associate(normalized(idx), refDirs)
		nicheCount[dir]++
	}

	type association struct {
		member int
		dir    int
		dist   float64
	}
	remaining := make([]association, 0, len(splitting))
	for _, idx := range splitting {
		dir, dist := associate(normalized(idx), refDirs)
		remaining = append(remaining, association{member: idx, dir: dir, dist: dist})
	}

	for len(next) < size && len(remaining) > 0 {
		// Pick the least crowded reference direction among those with
		// pending members
		minCount := math.MaxInt32
		for _, assoc := range remaining {
			if nicheCount[assoc.dir] < minCount {
				minCount = nicheCount[assoc.dir]
			}
		}

		bestPos := -1
		for pos, assoc := range remaining {
			if nicheCount[assoc.dir] != minCount {
				continue
			}
			if bestPos == -1 || assoc.dist < remaining[bestPos].dist {
				bestPos = pos
			}
		}

		chosen := remaining[bestPos]
		next = append(next, chosen.member)
		nicheCount[chosen.dir]++
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return next
}

// nonDominatedSort partitions members into Pareto fronts, preserving the
// incoming order within each front.
func nonDominatedSort(members []int, objectives [][objectiveCount]float64) [][]int {
	dominatedBy := make([]int, len(members))
	dominated := make([][]int, len(members))

	for i := range members {
		for j := range members {
			if i == j {
				continue
			}
			if dominates(objectives[members[i]], objectives[members[j]]) {
				dominated[i] = append(dominated[i], j)
			} else if dominates(objectives[members[j]], objectives[members[i]]) {
				dominatedBy[i]++
			}
		}
	}

	var fronts [][]int
	var current []int
	for i := range members {
		if dominatedBy[i] == 0 {
			current = append(current, i)
		}
	}

	for len(current) > 0 {
		front := make([]int, 0, len(current))
		var nextFront []int
		for _, i := range current {
			front = append(front, members[i])
			for _, j := range dominated[i] {
				dominatedBy[j]--
				if dominatedBy[j] == 0 {
					nextFront = append(nextFront, j)
				}
			}
		}
		fronts = append(fronts, front)
		current = nextFront
	}

	return fronts
}

// objectiveBounds returns the per-objective minimum and maximum over the
// pool, ignoring infinite values from invalid routes.
func objectiveBounds(pool []int, objectives [][objectiveCount]float64) (ideal, nadir [objectiveCount]float64) {
	for i := 0; i < objectiveCount; i++ {
		ideal[i] = math.Inf(1)
		nadir[i] = math.Inf(-1)
	}
	for _, idx := range pool {
		for i := 0; i < objectiveCount; i++ {
			v := objectives[idx][i]
			if math.IsInf(v, 0) {
				continue
			}
			if v < ideal[i] {
				ideal[i] = v
			}
			if v > nadir[i] {
				nadir[i] = v
			}
		}
	}
	return ideal, nadir
}

// associate finds the reference direction with the smallest perpendicular
// distance to the normalized objective vector.
func associate(f [objectiveCount]float64, refDirs [][objectiveCount]float64) (dirIndex int, distance float64) {
	best := math.Inf(1)
	bestDir := 0
	for d, w := range refDirs {
		dist := perpendicularDistance(f, w)
		if dist < best {
			best = dist
			bestDir = d
		}
	}
	return bestDir, best
}

// perpendicularDistance is the distance from point f to the ray through
// the origin along direction w.
func perpendicularDistance(f, w [objectiveCount]float64) float64 {
	var dot, wNormSq float64
	for i := 0; i < objectiveCount; i++ {
		dot += f[i] * w[i]
		wNormSq += w[i] * w[i]
	}
	if wNormSq == 0 {
		return math.Inf(1)
	}
	scale := dot / wNormSq

	var distSq float64
	for i := 0; i < objectiveCount; i++ {
		diff := f[i] - scale*w[i]
		distSq += diff * diff
	}
	return math.Sqrt(distSq)
}

// dasDennisDirections builds the uniform simplex partition of reference
// directions for three objectives (91 directions at 12 partitions).
func dasDennisDirections(partitions int) [][objectiveCount]float64 {
	var dirs [][objectiveCount]float64
	for i := 0; i <= partitions; i++ {
		for j := 0; j <= partitions-i; j++ {
			k := partitions - i - j
			dirs = append(dirs, [objectiveCount]float64{
				float64(i) / float64(partitions),
				float64(j) / float64(partitions),
				float64(k) / float64(partitions),
			})
		}
	}
	return dirs
}
