package search

import (
	"context"
	"encoding/json"
	"math"
	"slices"

	"road_routing/internal/models"
)

// Outcome is one strategy's answer in a comparison: a result or an error,
// never both.
type Outcome struct {
	Result *models.SearchResult
	Err    error
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	v := struct {
		Outcome string               `json:"outcome"`
		Result  *models.SearchResult `json:"result,omitempty"`
		Error   string               `json:"error,omitempty"`
	}{Outcome: Classify(o.Err), Result: o.Result}
	if o.Err != nil {
		v.Error = o.Err.Error()
	}
	return json.Marshal(v)
}

// Comparison maps each strategy to its outcome.
type Comparison map[models.Algorithm]Outcome

// Compare runs uniform-cost, greedy and A* in that order on the same
// inputs. A failing strategy does not stop the others. Only a cancelled ctx
// can leave later strategies with ctx.Err() as their outcome.
func Compare(ctx context.Context, g *models.Graph, origin, dest string, est Estimator, opts ...Option) Comparison {
	c := make(Comparison, len(models.Algorithms))
	for _, alg := range models.Algorithms {
		res, err := Run(ctx, alg, g, origin, dest, est, opts...)
		c[alg] = Outcome{Result: res, Err: err}
	}
	return c
}

const totalTolerance = 1e-9

// Diverges reports whether the strategies disagree: one succeeded where
// another failed, or two successful routes differ in path or total.
func (c Comparison) Diverges() bool {
	var first *models.SearchResult
	seen := false
	ok := false
	for _, alg := range models.Algorithms {
		out, present := c[alg]
		if !present {
			continue
		}
		succeeded := out.Err == nil && out.Result != nil
		if !seen {
			seen, ok, first = true, succeeded, out.Result
			continue
		}
		if succeeded != ok {
			return true
		}
		if !succeeded {
			continue
		}
		if !slices.Equal(first.Path, out.Result.Path) || math.Abs(first.TotalKm-out.Result.TotalKm) > totalTolerance {
			return true
		}
	}
	return false
}

// Shortest returns the successful outcome with the smallest total, preferring
// earlier strategies on ties.
func (c Comparison) Shortest() (*models.SearchResult, bool) {
	var best *models.SearchResult
	for _, alg := range models.Algorithms {
		out, ok := c[alg]
		if !ok || out.Err != nil || out.Result == nil {
			continue
		}
		if best == nil || out.Result.TotalKm < best.TotalKm-totalTolerance {
			best = out.Result
		}
	}
	return best, best != nil
}
