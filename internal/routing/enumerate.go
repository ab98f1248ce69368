package routing

import (
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
)

// EnumerateRoutes produces candidate node sequences following realistic
// multi-modal templates:
//
//  1. direct road when a road edge connects the endpoints,
//  2. air bridge: source -> home airport -> remote airport -> destination,
//  3. sea bridge: the same shape over ports.
//
// Hubs qualify only when the connecting road edges exist, so every
// returned sequence is edge-complete. Output order is deterministic for a
// fixed graph and truncated to maxRoutes.
func EnumerateRoutes(g *network.Graph, source, destination string, maxRoutes int) []models.Route {
	var routes []models.Route

	srcLoc, ok := g.Node(source)
	if !ok {
		return nil
	}
	dstLoc, ok := g.Node(destination)
	if !ok {
		return nil
	}

	if edge, ok := g.Edge(source, destination); ok && edge.Mode == models.ModeRoad {
		routes = append(routes, models.Route{source, destination})
	}

	sourceAirports := hubsWithRoad(g, models.TypeAirport, srcLoc.Country, source, true)
	destAirports := hubsWithRoad(g, models.TypeAirport, dstLoc.Country, destination, false)
	sourcePorts := hubsWithRoad(g, models.TypePort, srcLoc.Country, source, true)
	destPorts := hubsWithRoad(g, models.TypePort, dstLoc.Country, destination, false)

	for _, srcHub := range sourceAirports {
		for _, dstHub := range destAirports {
			if g.HasEdge(srcHub, dstHub) {
				routes = append(routes, models.Route{source, srcHub, dstHub, destination})
			}
		}
	}

	for _, srcHub := range sourcePorts {
		for _, dstHub := range destPorts {
			if g.HasEdge(srcHub, dstHub) {
				routes = append(routes, models.Route{source, srcHub, dstHub, destination})
			}
		}
	}

	if len(routes) > maxRoutes {
		routes = routes[:maxRoutes]
	}
	return routes
}

// hubsWithRoad lists in-country hubs of the given type that have a road
// edge from the endpoint (outbound) or towards it (inbound).
func hubsWithRoad(g *network.Graph, locType models.LocationType, country, endpoint string, outbound bool) []string {
	var hubs []string
	for _, name := range g.NodesOfType(locType, country) {
		if outbound && g.HasEdge(endpoint, name) {
			hubs = append(hubs, name)
		}
		if !outbound && g.HasEdge(name, endpoint) {
			hubs = append(hubs, name)
		}
	}
	return hubs
}
