package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"road_routing/internal/models"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/topo"
)

var ErrNegativeRange = errors.New("range must not be negative")

// Reach is a node within range of an origin, with its shortest route.
type Reach struct {
	Node       string   `json:"node"`
	DistanceKm float64  `json:"distance_km"`
	Path       []string `json:"path"`
}

// Reachable returns every node other than origin whose shortest distance
// from origin is at most maxKm, nearest first. Nodes at the same distance
// keep graph insertion order.
func Reachable(ctx context.Context, g *models.Graph, origin string, maxKm float64) ([]Reach, error) {
	if !g.HasNode(origin) {
		return nil, &InputError{Node: origin, Err: fmt.Errorf("%w: %s", models.ErrNodeNotFound, origin)}
	}
	if maxKm < 0 || math.IsNaN(maxKm) {
		return nil, fmt.Errorf("reachable from %s: %w", origin, ErrNegativeRange)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, _ := g.NodeID(origin)
	view := g.Gonum()
	shortest := path.DijkstraFrom(view.Node(from), view)

	var out []Reach
	for _, name := range g.Nodes() {
		if name == origin {
			continue
		}
		id, _ := g.NodeID(name)
		nodes, km := shortest.To(id)
		if len(nodes) == 0 || km > maxKm {
			continue
		}
		p := make([]string, len(nodes))
		for i, n := range nodes {
			p[i] = g.NodeName(n.ID())
		}
		out = append(out, Reach{Node: name, DistanceKm: km, Path: p})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// Components splits the graph into connected components. Each component
// lists its nodes in insertion order and components are ordered by their
// earliest node. A connected graph yields a single component.
func Components(g *models.Graph) [][]string {
	cc := topo.ConnectedComponents(g.Gonum())

	ids := make([][]int64, len(cc))
	for i, comp := range cc {
		for _, n := range comp {
			ids[i] = append(ids[i], n.ID())
		}
		sort.Slice(ids[i], func(a, b int) bool { return ids[i][a] < ids[i][b] })
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a][0] < ids[b][0] })

	out := make([][]string, len(ids))
	for i, comp := range ids {
		out[i] = make([]string, len(comp))
		for j, id := range comp {
			out[i][j] = g.NodeName(id)
		}
	}
	return out
}
