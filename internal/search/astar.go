package search

import (
	"context"

	"road_routing/internal/models"
)

// AStar orders the frontier by accumulated distance plus estimate. A
// candidate is dropped when a path at least as short already reached the
// same node. With an admissible estimator the result is optimal.
func AStar(ctx context.Context, g *models.Graph, origin, dest string, est Estimator, opts ...Option) (*models.SearchResult, error) {
	best := map[string]float64{origin: 0}
	r := rule{
		priority: func(cost, h float64) float64 { return cost + h },
		admit: func(node string, cost float64) bool {
			if prev, ok := best[node]; ok && cost >= prev {
				return false
			}
			best[node] = cost
			return true
		},
	}
	return frontierSearch(ctx, models.AStar, g, origin, dest, est, r, opts)
}
