package routing

import (
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
)

// testGraph builds a small intercontinental network: Delhi to New York
// with two air bridges and one sea bridge.
func testGraph() *network.Graph {
	g := network.NewGraph()

	g.AddNode(models.Location{Name: "Delhi", Type: models.TypeCity, Country: "India", Coords: "77.1025,28.7041"})
	g.AddNode(models.Location{Name: "New York", Type: models.TypeCity, Country: "USA", Coords: "-74.0060,40.7128"})
	g.AddNode(models.Location{Name: "Delhi Airport", Type: models.TypeAirport, Country: "India", Coords: "77.1000,28.5562"})
	g.AddNode(models.Location{Name: "Mumbai Airport", Type: models.TypeAirport, Country: "India", Coords: "72.8679,19.0896"})
	g.AddNode(models.Location{Name: "JFK Airport", Type: models.TypeAirport, Country: "USA", Coords: "-73.7781,40.6413"})
	g.AddNode(models.Location{Name: "Mumbai Port", Type: models.TypePort, Country: "India", Coords: "72.8321,18.9517"})
	g.AddNode(models.Location{Name: "Port of Houston", Type: models.TypePort, Country: "USA", Coords: "-95.2972,29.6147"})

	// Road legs
	g.AddEdge(models.Edge{From: "Delhi", To: "Delhi Airport", Mode: models.ModeRoad, TimeHr: 1, DistanceKm: 20, TotalCost: 2000})
	g.AddEdge(models.Edge{From: "Delhi", To: "Mumbai Airport", Mode: models.ModeRoad, TimeHr: 24, DistanceKm: 1400, TotalCost: 15000})
	g.AddEdge(models.Edge{From: "Delhi", To: "Mumbai Port", Mode: models.ModeRoad, TimeHr: 25, DistanceKm: 1420, TotalCost: 15500})
	g.AddEdge(models.Edge{From: "JFK Airport", To: "New York", Mode: models.ModeRoad, TimeHr: 0.5, DistanceKm: 25, TotalCost: 1000})
	g.AddEdge(models.Edge{From: "Port of Houston", To: "New York", Mode: models.ModeRoad, TimeHr: 26, DistanceKm: 2600, TotalCost: 30000})

	// Air legs; the Mumbai flight has no tabulated distance
	g.AddEdge(models.Edge{From: "Delhi Airport", To: "JFK Airport", Mode: models.ModeAir, TimeHr: 15, DistanceKm: 11750, CostPerKg: 6})
	g.AddEdge(models.Edge{From: "Mumbai Airport", To: "JFK Airport", Mode: models.ModeAir, TimeHr: 16, CostPerKg: 5})

	// Sea leg (12 days)
	g.AddEdge(models.Edge{From: "Mumbai Port", To: "Port of Houston", Mode: models.ModeSea, TimeHr: 288, CostPerKg: 1.5})

	return g
}

func testRoutes() []models.Route {
	return []models.Route{
		{"Delhi", "Delhi Airport", "JFK Airport", "New York"},
		{"Delhi", "Mumbai Airport", "JFK Airport", "New York"},
		{"Delhi", "Mumbai Port", "Port of Houston", "New York"},
	}
}

func evaluateAll(g *network.Graph, routes []models.Route, weightKg float64, goods models.GoodsType) []Candidate {
	candidates := make([]Candidate, 0, len(routes))
	for _, route := range routes {
		candidates = append(candidates, Candidate{
			Route: route,
			Eval:  EvaluateRoute(g, route, weightKg, goods),
		})
	}
	return candidates
}
