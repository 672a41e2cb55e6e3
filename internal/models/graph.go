package models

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateEdge = errors.New("edge already exists")
	ErrInvalidWeight = errors.New("edge weight must be a positive finite number")
	ErrSelfLoop      = errors.New("edge must connect two distinct nodes")
)

// Neighbor is a node adjacent to another one and the weight of the edge
// joining them, in kilometers.
type Neighbor struct {
	Node   string
	Weight float64
}

// Edge is an undirected connection between two cities.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"distance_km"`
}

// Graph is an undirected weighted graph keyed by city name.
//
// Adjacency lists keep edge insertion order so that searches expand
// neighbors deterministically. A gonum mirror of the same graph backs the
// textbook algorithms (Dijkstra, connected components).
type Graph struct {
	index    map[string]int64
	names    []string
	adj      [][]Neighbor
	edges    []Edge
	weighted *simple.WeightedUndirectedGraph
}

func NewGraph() *Graph {
	return &Graph{
		index:    make(map[string]int64),
		weighted: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
}

// AddNode registers a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	n := int64(len(g.names))
	g.index[id] = n
	g.names = append(g.names, id)
	g.adj = append(g.adj, nil)
	g.weighted.AddNode(simple.Node(n))
}

// AddEdge connects a and b with the given weight in kilometers.
func (g *Graph) AddEdge(a, b string, km float64) error {
	ai, ok := g.index[a]
	if !ok {
		return fmt.Errorf("edge %s-%s: %w: %s", a, b, ErrNodeNotFound, a)
	}
	bi, ok := g.index[b]
	if !ok {
		return fmt.Errorf("edge %s-%s: %w: %s", a, b, ErrNodeNotFound, b)
	}
	if a == b {
		return fmt.Errorf("edge %s-%s: %w", a, b, ErrSelfLoop)
	}
	if math.IsNaN(km) || math.IsInf(km, 0) || km <= 0 {
		return fmt.Errorf("edge %s-%s (%v): %w", a, b, km, ErrInvalidWeight)
	}
	if g.weighted.HasEdgeBetween(ai, bi) {
		return fmt.Errorf("edge %s-%s: %w", a, b, ErrDuplicateEdge)
	}

	g.adj[ai] = append(g.adj[ai], Neighbor{Node: b, Weight: km})
	g.adj[bi] = append(g.adj[bi], Neighbor{Node: a, Weight: km})
	g.edges = append(g.edges, Edge{From: a, To: b, Weight: km})
	g.weighted.SetWeightedEdge(g.weighted.NewWeightedEdge(simple.Node(ai), simple.Node(bi), km))
	return nil
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

func (g *Graph) Len() int { return len(g.names) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns every edge once, in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Neighbors returns the nodes adjacent to id with their edge weights, in
// insertion order. The slice is a copy.
func (g *Graph) Neighbors(id string) ([]Neighbor, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	out := make([]Neighbor, len(g.adj[i]))
	copy(out, g.adj[i])
	return out, nil
}

// Weight returns the weight of the edge between a and b.
func (g *Graph) Weight(a, b string) (float64, bool) {
	ai, ok := g.index[a]
	if !ok {
		return 0, false
	}
	bi, ok := g.index[b]
	if !ok || ai == bi {
		return 0, false
	}
	e := g.weighted.WeightedEdgeBetween(ai, bi)
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

// GonumView is the read-only gonum interface of a Graph.
type GonumView interface {
	graph.Undirected
	graph.Weighted
}

// Gonum exposes the gonum mirror for library algorithms.
func (g *Graph) Gonum() GonumView { return g.weighted }

// NodeID returns the gonum node ID assigned to a city name.
func (g *Graph) NodeID(name string) (int64, bool) {
	id, ok := g.index[name]
	return id, ok
}

// NodeName is the inverse of NodeID.
func (g *Graph) NodeName(id int64) string {
	if id < 0 || id >= int64(len(g.names)) {
		return ""
	}
	return g.names[id]
}
