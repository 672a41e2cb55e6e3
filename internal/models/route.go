package models

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm names a search strategy.
type Algorithm string

const (
	Dijkstra Algorithm = "dijkstra"
	Greedy   Algorithm = "greedy"
	AStar    Algorithm = "astar"
)

// Algorithms lists the strategies in the order a comparison runs them.
var Algorithms = []Algorithm{Dijkstra, Greedy, AStar}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case Dijkstra, "uniform_cost", "ucs":
		return Dijkstra, nil
	case Greedy, "voraz", "best_first":
		return Greedy, nil
	case AStar, "a*", "a_star":
		return AStar, nil
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// Label is the display name used in reports.
func (a Algorithm) Label() string {
	switch a {
	case Dijkstra:
		return "Dijkstra"
	case Greedy:
		return "Greedy best-first"
	case AStar:
		return "A*"
	}
	return string(a)
}

// Segment is one hop of a route. DistanceKm is always the graph edge weight.
type Segment struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
}

type SearchResult struct {
	Algorithm Algorithm `json:"algorithm"`
	Path      []string  `json:"path"`
	Segments  []Segment `json:"segments"`
	TotalKm   float64   `json:"total_km"`
	Expanded  int       `json:"expanded_nodes,omitempty"`
}

func (r SearchResult) Origin() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[0]
}

func (r SearchResult) Destination() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}

// SavedRoute is a search result persisted by a route store.
type SavedRoute struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Result    SearchResult `json:"result"`
}
