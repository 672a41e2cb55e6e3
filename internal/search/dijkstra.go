package search

import (
	"context"
	"math"

	"road_routing/internal/models"

	"gonum.org/v1/gonum/graph/path"
)

// UniformCost finds a minimum-total-distance path with Dijkstra's algorithm.
// The expansion itself runs inside gonum, so ctx is only checked before it
// starts and WithExpansionLimit has no effect.
func UniformCost(ctx context.Context, g *models.Graph, origin, dest string, _ ...Option) (*models.SearchResult, error) {
	if err := checkEndpoints(g, origin, dest); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, _ := g.NodeID(origin)
	to, _ := g.NodeID(dest)

	view := g.Gonum()
	shortest := path.DijkstraFrom(view.Node(from), view)
	nodes, weight := shortest.To(to)
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return nil, &NoPathError{From: origin, To: dest}
	}

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = g.NodeName(n.ID())
	}
	return Report(g, models.Dijkstra, names, 0)
}
