package network

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/roadrouter"
)

// Resolver supplies coordinates and countries for location names
type Resolver interface {
	Coords(ctx context.Context, location string) string
	Country(ctx context.Context, location string) string
}

// RoadQuerier supplies road routes between coordinate pairs
type RoadQuerier interface {
	Route(ctx context.Context, fromCoords, toCoords string) roadrouter.RoadRoute
}

// Builder assembles the directed transportation network for one request
type Builder struct {
	resolver  Resolver
	roads     RoadQuerier
	workers   int
	maxRoadKm float64
}

// NewBuilder creates a network builder. workers bounds the road query
// fan-out; maxRoadKm caps admissible road leg distance.
func NewBuilder(resolver Resolver, roads RoadQuerier, workers int, maxRoadKm float64) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		resolver:  resolver,
		roads:     roads,
		workers:   workers,
		maxRoadKm: maxRoadKm,
	}
}

// Build constructs the graph: air edges from the flight table, sea edges
// from the shipping table, then road edges connecting source and
// destination to hubs in their own countries.
func (b *Builder) Build(ctx context.Context, flights []models.FlightRow, shipping []models.ShippingRow, source, destination string) (*Graph, error) {
	g := NewGraph()

	for _, row := range flights {
		b.ensureNode(ctx, g, row.DepartureAirport, models.TypeAirport)
		b.ensureNode(ctx, g, row.ArrivalAirport, models.TypeAirport)
		g.AddEdge(models.Edge{
			From:       row.DepartureAirport,
			To:         row.ArrivalAirport,
			Mode:       models.ModeAir,
			TimeHr:     row.TimeHr,
			DistanceKm: row.DistanceKm,
			CostPerKg:  row.CostPerKg,
		})
	}

	for _, row := range shipping {
		b.ensureNode(ctx, g, row.DeparturePort, models.TypePort)
		b.ensureNode(ctx, g, row.ArrivalPort, models.TypePort)
		g.AddEdge(models.Edge{
			From:      row.DeparturePort,
			To:        row.ArrivalPort,
			Mode:      models.ModeSea,
			TimeHr:    row.TimeDays * 24,
			CostPerKg: row.CostPerKg,
		})
	}

	sourceCoords := b.resolver.Coords(ctx, source)
	destCoords := b.resolver.Coords(ctx, destination)
	sourceCountry := b.resolver.Country(ctx, source)
	destCountry := b.resolver.Country(ctx, destination)

	g.AddNode(models.Location{Name: source, Type: models.TypeCity, Country: sourceCountry, Coords: sourceCoords})
	g.AddNode(models.Location{Name: destination, Type: models.TypeCity, Country: destCountry, Coords: destCoords})

	log.Printf("Adding road connections for %s (%s) to %s (%s)", source, sourceCountry, destination, destCountry)

	// Direct road between the endpoints, when physically feasible
	if road := b.roads.Route(ctx, sourceCoords, destCoords); road.Success &&
		FeasibleRoad(sourceCountry, destCountry, road.DistanceKm, b.maxRoadKm) {
		g.AddEdge(roadEdge(source, destination, road))
		log.Printf("Added direct road connection: %s -> %s (%.1f km)", source, destination, road.DistanceKm)
	}

	sourceHubs := b.countryHubs(g, sourceCountry, source, destination)
	destHubs := b.countryHubs(g, destCountry, source, destination)

	// Fan out road queries from source to in-country hubs
	log.Printf("Connecting %s to %d hubs in %s", source, len(sourceHubs), sourceCountry)
	sourceRoads := b.parallelRoadQueries(ctx, g, sourceCoords, sourceHubs, true)
	for _, hub := range sortedKeys(sourceRoads) {
		road := sourceRoads[hub]
		if FeasibleRoad(sourceCountry, sourceCountry, road.DistanceKm, b.maxRoadKm) {
			g.AddEdge(roadEdge(source, hub, road))
		}
	}

	// And from in-country hubs into the destination
	log.Printf("Connecting %d hubs in %s to %s", len(destHubs), destCountry, destination)
	destRoads := b.parallelRoadQueries(ctx, g, destCoords, destHubs, false)
	for _, hub := range sortedKeys(destRoads) {
		road := destRoads[hub]
		if FeasibleRoad(destCountry, destCountry, road.DistanceKm, b.maxRoadKm) {
			g.AddEdge(roadEdge(hub, destination, road))
		}
	}

	// A cancelled request must not hand back a partial graph
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("network build cancelled: %w", err)
	}

	return g, nil
}

// ensureNode adds a hub node, resolving country and coordinates lazily on
// first reference.
func (b *Builder) ensureNode(ctx context.Context, g *Graph, name string, locType models.LocationType) {
	if g.HasNode(name) {
		return
	}
	country := b.resolver.Country(ctx, name)
	g.EnsureNode(name, locType, country)
	g.SetCoords(name, b.resolver.Coords(ctx, name))
}

// countryHubs lists airport/port nodes in a country, excluding the
// request endpoints, in deterministic order.
func (b *Builder) countryHubs(g *Graph, country, source, destination string) []string {
	var hubs []string
	for _, name := range g.NodeNames() {
		loc, _ := g.Node(name)
		if name == source || name == destination {
			continue
		}
		if loc.Country != country {
			continue
		}
		if loc.Type != models.TypeAirport && loc.Type != models.TypePort {
			continue
		}
		hubs = append(hubs, name)
	}
	return hubs
}

// parallelRoadQueries fans road queries out across a bounded worker pool.
// Workers only read node coordinates; results are collected into a local
// map and applied to the graph serially by the caller.
func (b *Builder) parallelRoadQueries(ctx context.Context, g *Graph, endpointCoords string, hubs []string, fromEndpoint bool) map[string]roadrouter.RoadRoute {
	results := make(map[string]roadrouter.RoadRoute)
	if len(hubs) == 0 {
		return results
	}

	type roadResult struct {
		hub  string
		road roadrouter.RoadRoute
	}

	jobs := make(chan string, len(hubs))
	out := make(chan roadResult, len(hubs))

	for _, hub := range hubs {
		jobs <- hub
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hub := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				loc, ok := g.Node(hub)
				if !ok || loc.Coords == "" {
					continue
				}

				var road roadrouter.RoadRoute
				if fromEndpoint {
					road = b.roads.Route(ctx, endpointCoords, loc.Coords)
				} else {
					road = b.roads.Route(ctx, loc.Coords, endpointCoords)
				}

				select {
				case out <- roadResult{hub: hub, road: road}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for result := range out {
		if result.road.Success {
			results[result.hub] = result.road
		}
	}

	return results
}

func roadEdge(from, to string, road roadrouter.RoadRoute) models.Edge {
	return models.Edge{
		From:       from,
		To:         to,
		Mode:       models.ModeRoad,
		TimeHr:     road.TimeHr,
		DistanceKm: road.DistanceKm,
		FuelCost:   road.FuelCost,
		TollCost:   road.TollCost,
		DriverWage: road.DriverWage,
		TotalCost:  road.TotalCost,
		Geometry:   road.Geometry,
	}
}

// sortedKeys keeps the serial application order deterministic
func sortedKeys(m map[string]roadrouter.RoadRoute) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
