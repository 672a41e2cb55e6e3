// Package search finds routes between cities of a road network.
//
// Three strategies are available: uniform-cost search (Dijkstra), greedy
// best-first search and A*. Greedy and A* share a single frontier loop and
// differ only in how they rank frontier entries and whether they prune
// neighbors by best-known cost. Every strategy returns either a
// *models.SearchResult whose total is the sum of graph edge weights, or one
// of the typed errors in this package. No partial result accompanies an
// error.
//
// Graphs and coordinates are read-only here and may be shared by concurrent
// searches.
package search

import (
	"context"
	"errors"
	"fmt"

	"road_routing/internal/models"
)

// Estimator estimates the remaining cost between two nodes.
type Estimator interface {
	Estimate(from, to string) (float64, error)
}

// EstimatorFunc adapts a function to Estimator.
type EstimatorFunc func(from, to string) (float64, error)

func (f EstimatorFunc) Estimate(from, to string) (float64, error) { return f(from, to) }

// Run executes the named strategy. est is ignored by uniform-cost search.
func Run(ctx context.Context, alg models.Algorithm, g *models.Graph, origin, dest string, est Estimator, opts ...Option) (*models.SearchResult, error) {
	switch alg {
	case models.Dijkstra:
		return UniformCost(ctx, g, origin, dest, opts...)
	case models.Greedy:
		return Greedy(ctx, g, origin, dest, est, opts...)
	case models.AStar:
		return AStar(ctx, g, origin, dest, est, opts...)
	}
	return nil, fmt.Errorf("unknown algorithm %q", alg)
}

func checkEndpoints(g *models.Graph, origin, dest string) error {
	for _, n := range []string{origin, dest} {
		if !g.HasNode(n) {
			return &InputError{Node: n, Err: fmt.Errorf("%w: %s", models.ErrNodeNotFound, n)}
		}
	}
	return nil
}

// rule is what distinguishes the frontier strategies. priority ranks a
// candidate from its accumulated cost and the estimate to the destination.
// admit, when set, may reject a candidate before it is estimated.
type rule struct {
	priority func(cost, estimate float64) float64
	admit    func(node string, cost float64) bool
}

func estimate(est Estimator, from, to string) (float64, error) {
	h, err := est.Estimate(from, to)
	if err == nil {
		return h, nil
	}
	var missing *models.MissingCoordinateError
	if errors.As(err, &missing) {
		return 0, &InputError{Node: missing.Node, Err: err}
	}
	if errors.Is(err, models.ErrMissingCoordinate) {
		return 0, &InputError{Node: from, Err: err}
	}
	return 0, fmt.Errorf("estimate %s-%s: %w", from, to, err)
}

// frontierSearch runs the shared frontier loop and packages the result.
func frontierSearch(ctx context.Context, alg models.Algorithm, g *models.Graph, origin, dest string, est Estimator, r rule, opts []Option) (*models.SearchResult, error) {
	if err := checkEndpoints(g, origin, dest); err != nil {
		return nil, err
	}
	if est == nil {
		return nil, ErrNoEstimator
	}
	// Both endpoints need coordinates before anything is expanded.
	if _, err := estimate(est, origin, dest); err != nil {
		return nil, err
	}

	path, expanded, err := explore(ctx, g, origin, dest, est, r, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return Report(g, alg, path, expanded)
}

func explore(ctx context.Context, g *models.Graph, origin, dest string, est Estimator, r rule, o options) ([]string, int, error) {
	var f frontier
	f.push(&item{node: origin, path: []string{origin}})
	visited := make(map[string]bool)
	expanded := 0

	for !f.empty() {
		if err := ctx.Err(); err != nil {
			return nil, expanded, err
		}

		current := f.pop()
		if current.node == dest {
			return current.path, expanded, nil
		}
		if visited[current.node] {
			continue
		}
		if o.expansionLimit > 0 && expanded >= o.expansionLimit {
			return nil, expanded, &NoPathError{From: origin, To: dest, Limited: true}
		}
		visited[current.node] = true
		expanded++

		neighbors, err := g.Neighbors(current.node)
		if err != nil {
			return nil, expanded, err
		}
		for _, nb := range neighbors {
			if visited[nb.Node] {
				continue
			}
			cost := current.cost + nb.Weight
			if r.admit != nil && !r.admit(nb.Node, cost) {
				continue
			}
			h, err := estimate(est, nb.Node, dest)
			if err != nil {
				return nil, expanded, err
			}
			f.push(&item{
				node:     nb.Node,
				path:     extend(current.path, nb.Node),
				cost:     cost,
				priority: r.priority(cost, h),
			})
		}
	}

	return nil, expanded, &NoPathError{From: origin, To: dest}
}
