package search

import (
	"fmt"
	"strings"

	"road_routing/internal/models"
)

// Report packages an accepted path. Segment weights are read from the graph
// and the total is their sum, so heuristic bookkeeping never leaks into the
// reported distance.
func Report(g *models.Graph, alg models.Algorithm, path []string, expanded int) (*models.SearchResult, error) {
	if len(path) == 0 {
		return nil, &InvariantError{Reason: "empty path"}
	}
	if !g.HasNode(path[0]) {
		return nil, &InvariantError{From: path[0], Reason: "node not in graph"}
	}

	seen := map[string]bool{path[0]: true}
	segments := make([]models.Segment, 0, len(path)-1)
	total := 0.0
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		if seen[to] {
			return nil, &InvariantError{From: from, To: to, Reason: "node repeated"}
		}
		seen[to] = true

		w, ok := g.Weight(from, to)
		if !ok {
			return nil, &InvariantError{From: from, To: to, Reason: "not an edge"}
		}
		segments = append(segments, models.Segment{From: from, To: to, DistanceKm: w})
		total += w
	}

	out := make([]string, len(path))
	copy(out, path)
	return &models.SearchResult{
		Algorithm: alg,
		Path:      out,
		Segments:  segments,
		TotalKm:   total,
		Expanded:  expanded,
	}, nil
}

// Describe renders a result as a short plain-text summary.
func Describe(r *models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Route found with %s\n", r.Algorithm.Label())
	fmt.Fprintf(&b, "  From: %s\n", r.Origin())
	fmt.Fprintf(&b, "  To: %s\n", r.Destination())
	fmt.Fprintf(&b, "  Cities: %s\n", strings.Join(r.Path, " -> "))
	fmt.Fprintf(&b, "  City count: %d\n", len(r.Path))
	fmt.Fprintf(&b, "  Total distance: %.1f km\n", r.TotalKm)
	if len(r.Segments) > 0 {
		b.WriteString("  Segments:\n")
		for _, s := range r.Segments {
			fmt.Fprintf(&b, "    - %s -> %s: %.1f km\n", s.From, s.To, s.DistanceKm)
		}
	}
	return b.String()
}

// DescribeComparison renders every outcome of a comparison in run order.
func DescribeComparison(c Comparison) string {
	var b strings.Builder
	for i, alg := range models.Algorithms {
		out, ok := c[alg]
		if !ok {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		if out.Err != nil {
			fmt.Fprintf(&b, "%s failed: %v\n", alg.Label(), out.Err)
			continue
		}
		b.WriteString(Describe(out.Result))
	}
	if c.Diverges() {
		b.WriteString("\nStrategies disagree on the route.\n")
	}
	return b.String()
}
