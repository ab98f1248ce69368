package network

import (
	"sort"

	"github.com/cargoroute/cargoroute_core/internal/models"
)

// Graph is the request-scoped directed transportation network.
// Nodes are keyed by location name; at most one edge exists per ordered
// (from, to) pair. The graph is built once per request and read-only
// afterwards, so no locking is needed.
type Graph struct {
	nodes map[string]models.Location
	edges map[string]map[string]models.Edge
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]models.Location),
		edges: make(map[string]map[string]models.Edge),
	}
}

// AddNode inserts or replaces a node
func (g *Graph) AddNode(loc models.Location) {
	g.nodes[loc.Name] = loc
}

// EnsureNode inserts a node if absent and returns it
func (g *Graph) EnsureNode(name string, locType models.LocationType, country string) models.Location {
	if existing, ok := g.nodes[name]; ok {
		return existing
	}
	loc := models.Location{Name: name, Type: locType, Country: country}
	g.nodes[name] = loc
	return loc
}

// SetCoords attaches coordinates to an existing node
func (g *Graph) SetCoords(name, coords string) {
	if loc, ok := g.nodes[name]; ok {
		loc.Coords = coords
		g.nodes[name] = loc
	}
}

// Node returns a node by name
func (g *Graph) Node(name string) (models.Location, bool) {
	loc, ok := g.nodes[name]
	return loc, ok
}

// HasNode reports whether a node exists
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// AddEdge inserts a directed edge; both endpoints must already exist
func (g *Graph) AddEdge(e models.Edge) {
	if _, ok := g.edges[e.From]; !ok {
		g.edges[e.From] = make(map[string]models.Edge)
	}
	g.edges[e.From][e.To] = e
}

// Edge returns the edge from one node to another
func (g *Graph) Edge(from, to string) (models.Edge, bool) {
	e, ok := g.edges[from][to]
	return e, ok
}

// HasEdge reports whether a directed edge exists
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[from][to]
	return ok
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges
func (g *Graph) EdgeCount() int {
	count := 0
	for _, out := range g.edges {
		count += len(out)
	}
	return count
}

// NodeNames returns all node names in lexicographic order.
// Sorting keeps enumeration and neighborhood generation deterministic.
func (g *Graph) NodeNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodesOfType returns the names of nodes with the given type, optionally
// restricted to one country (empty string matches all), sorted.
func (g *Graph) NodesOfType(locType models.LocationType, country string) []string {
	var names []string
	for name, loc := range g.nodes {
		if loc.Type != locType {
			continue
		}
		if country != "" && loc.Country != country {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
