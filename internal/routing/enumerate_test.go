package routing

import (
	"testing"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateRoutes(t *testing.T) {
	g := testGraph()

	routes := EnumerateRoutes(g, "Delhi", "New York", 20)
	require.Len(t, routes, 3)

	// Hub enumeration is sorted, so the order is stable
	assert.Equal(t, models.Route{"Delhi", "Delhi Airport", "JFK Airport", "New York"}, routes[0])
	assert.Equal(t, models.Route{"Delhi", "Mumbai Airport", "JFK Airport", "New York"}, routes[1])
	assert.Equal(t, models.Route{"Delhi", "Mumbai Port", "Port of Houston", "New York"}, routes[2])

	// Every returned route is edge-complete
	for _, route := range routes {
		for i := 0; i < len(route)-1; i++ {
			assert.True(t, g.HasEdge(route[i], route[i+1]),
				"missing edge %s -> %s", route[i], route[i+1])
		}
	}
}

func TestEnumerateRoutesDirectRoad(t *testing.T) {
	g := testGraph()
	g.AddEdge(models.Edge{From: "Delhi", To: "New York", Mode: models.ModeRoad, TimeHr: 48, DistanceKm: 4000, TotalCost: 50000})

	routes := EnumerateRoutes(g, "Delhi", "New York", 20)
	require.NotEmpty(t, routes)

	// The direct road template comes first
	assert.Equal(t, models.Route{"Delhi", "New York"}, routes[0])
	assert.Len(t, routes, 4)
}

func TestEnumerateRoutesTruncation(t *testing.T) {
	g := testGraph()

	routes := EnumerateRoutes(g, "Delhi", "New York", 2)
	assert.Len(t, routes, 2)
}

func TestEnumerateRoutesUnknownEndpoints(t *testing.T) {
	g := testGraph()

	assert.Nil(t, EnumerateRoutes(g, "Atlantis", "New York", 20))
	assert.Nil(t, EnumerateRoutes(g, "Delhi", "Atlantis", 20))
}

func TestEnumerateRoutesNoHubConnections(t *testing.T) {
	g := network.NewGraph()
	g.AddNode(models.Location{Name: "A", Type: models.TypeCity, Country: "India"})
	g.AddNode(models.Location{Name: "B", Type: models.TypeCity, Country: "USA"})

	assert.Empty(t, EnumerateRoutes(g, "A", "B", 20))
}
