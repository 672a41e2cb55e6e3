package search

import (
	"context"

	"road_routing/internal/models"
)

// Greedy runs greedy best-first search: the frontier is ordered by the
// estimate alone and accumulated distance never prunes a candidate. The
// returned path is valid but is not guaranteed to be the shortest one.
func Greedy(ctx context.Context, g *models.Graph, origin, dest string, est Estimator, opts ...Option) (*models.SearchResult, error) {
	r := rule{
		priority: func(_, h float64) float64 { return h },
	}
	return frontierSearch(ctx, models.Greedy, g, origin, dest, est, r, opts)
}
