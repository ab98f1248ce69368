package routing

import (
	"sort"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
)

const (
	tabuMaxIterations = 50
	tabuListSize      = 7
)

// tabuObjective is the scalar the local search minimizes: pure time for
// the time priority, a time-weighted cost blend otherwise.
func tabuObjective(eval models.RouteEval, priority models.Priority) float64 {
	if priority == models.PriorityTime {
		return eval.TotalTime
	}
	return eval.TotalCost + eval.TotalTime*1000
}

// TabuSearch refines one route by swapping transit hubs. Each iteration
// substitutes every intermediate airport/port with every other node of
// the same type that keeps both adjacent edges intact, skips recently
// visited routes via a FIFO tabu list, and moves to the best neighbor
// unconditionally. The best route seen under the priority objective is
// returned.
func TabuSearch(g *network.Graph, initial models.Route, cargoWeightKg float64, goodsType models.GoodsType, priority models.Priority) (models.Route, models.RouteEval) {
	current := initial.Clone()
	currentEval := EvaluateRoute(g, current, cargoWeightKg, goodsType)

	best := current
	bestEval := currentEval

	var tabuList []string

	isTabu := func(key string) bool {
		for _, t := range tabuList {
			if t == key {
				return true
			}
		}
		return false
	}

	for iter := 0; iter < tabuMaxIterations; iter++ {
		type neighbor struct {
			route models.Route
			eval  models.RouteEval
		}
		var neighbors []neighbor

		// Hub substitution needs at least one intermediate node
		if len(current) >= 4 {
			for pos := 1; pos < len(current)-1; pos++ {
				loc, ok := g.Node(current[pos])
				if !ok || (loc.Type != models.TypeAirport && loc.Type != models.TypePort) {
					continue
				}

				for _, replacement := range g.NodesOfType(loc.Type, "") {
					if replacement == current[pos] {
						continue
					}
					if !g.HasEdge(current[pos-1], replacement) || !g.HasEdge(replacement, current[pos+1]) {
						continue
					}

					candidate := current.Clone()
					candidate[pos] = replacement
					if isTabu(candidate.Key()) {
						continue
					}

					eval := EvaluateRoute(g, candidate, cargoWeightKg, goodsType)
					if eval.Valid {
						neighbors = append(neighbors, neighbor{route: candidate, eval: eval})
					}
				}
			}
		}

		if len(neighbors) == 0 {
			break
		}

		sort.SliceStable(neighbors, func(i, j int) bool {
			return tabuObjective(neighbors[i].eval, priority) < tabuObjective(neighbors[j].eval, priority)
		})

		// Accept the best neighbor unconditionally; the tabu list is what
		// prevents cycling
		current = neighbors[0].route
		currentEval = neighbors[0].eval

		tabuList = append(tabuList, current.Key())
		if len(tabuList) > tabuListSize {
			tabuList = tabuList[1:]
		}

		if tabuObjective(currentEval, priority) < tabuObjective(bestEval, priority) {
			best = current
			bestEval = currentEval
		}
	}

	return best, bestEval
}
