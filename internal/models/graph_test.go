package models_test

import (
	"math"
	"testing"

	"road_routing/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiamond(t *testing.T) *models.Graph {
	t.Helper()
	g := models.NewGraph()
	for _, n := range []string{"A", "B", "C", "D"} {
		g.AddNode(n)
	}
	require.NoError(t, g.AddEdge("A", "B", 10))
	require.NoError(t, g.AddEdge("B", "D", 10))
	require.NoError(t, g.AddEdge("A", "C", 5))
	require.NoError(t, g.AddEdge("C", "D", 5))
	return g
}

func TestGraphAddEdge(t *testing.T) {
	t.Run("should reject edges that break the graph invariants", func(t *testing.T) {
		g := newDiamond(t)

		assert.ErrorIs(t, g.AddEdge("A", "B", 3), models.ErrDuplicateEdge)
		assert.ErrorIs(t, g.AddEdge("B", "A", 3), models.ErrDuplicateEdge, "pairs are unordered")
		assert.ErrorIs(t, g.AddEdge("A", "A", 3), models.ErrSelfLoop)
		assert.ErrorIs(t, g.AddEdge("A", "Z", 3), models.ErrNodeNotFound)
		assert.ErrorIs(t, g.AddEdge("A", "D", 0), models.ErrInvalidWeight)
		assert.ErrorIs(t, g.AddEdge("A", "D", -1), models.ErrInvalidWeight)
		assert.ErrorIs(t, g.AddEdge("A", "D", math.NaN()), models.ErrInvalidWeight)
		assert.ErrorIs(t, g.AddEdge("A", "D", math.Inf(1)), models.ErrInvalidWeight)
		assert.Equal(t, 4, g.EdgeCount())
	})

	t.Run("should treat re-adding a node as a no-op", func(t *testing.T) {
		g := newDiamond(t)
		g.AddNode("A")
		assert.Equal(t, 4, g.Len())
		assert.Equal(t, []string{"A", "B", "C", "D"}, g.Nodes())
	})
}

func TestGraphQueries(t *testing.T) {
	g := newDiamond(t)

	t.Run("should list neighbors in edge insertion order", func(t *testing.T) {
		ns, err := g.Neighbors("A")
		require.NoError(t, err)
		assert.Equal(t, []models.Neighbor{{Node: "B", Weight: 10}, {Node: "C", Weight: 5}}, ns)

		ns, err = g.Neighbors("D")
		require.NoError(t, err)
		assert.Equal(t, []models.Neighbor{{Node: "B", Weight: 10}, {Node: "C", Weight: 5}}, ns)
	})

	t.Run("should not let callers change the adjacency", func(t *testing.T) {
		ns, err := g.Neighbors("A")
		require.NoError(t, err)
		ns[0] = models.Neighbor{Node: "D", Weight: 1}
		_ = append(ns[:1], models.Neighbor{Node: "Z", Weight: 1})

		ns, err = g.Neighbors("A")
		require.NoError(t, err)
		assert.Equal(t, []models.Neighbor{{Node: "B", Weight: 10}, {Node: "C", Weight: 5}}, ns)
	})

	t.Run("should fail neighbor queries for unknown nodes", func(t *testing.T) {
		_, err := g.Neighbors("Z")
		assert.ErrorIs(t, err, models.ErrNodeNotFound)
	})

	t.Run("should report weights symmetrically", func(t *testing.T) {
		w, ok := g.Weight("C", "A")
		assert.True(t, ok)
		assert.Equal(t, 5.0, w)

		w, ok = g.Weight("A", "C")
		assert.True(t, ok)
		assert.Equal(t, 5.0, w)

		_, ok = g.Weight("A", "D")
		assert.False(t, ok)
		_, ok = g.Weight("A", "A")
		assert.False(t, ok)
		_, ok = g.Weight("A", "Z")
		assert.False(t, ok)
	})

	t.Run("should keep the gonum mirror in step", func(t *testing.T) {
		id, ok := g.NodeID("C")
		require.True(t, ok)
		assert.Equal(t, "C", g.NodeName(id))
		assert.Equal(t, 4, g.Gonum().Nodes().Len())
		assert.True(t, g.Gonum().HasEdgeBetween(0, 1))
		assert.Equal(t, "", g.NodeName(99))
	})
}

func TestCoordinatesLookup(t *testing.T) {
	coords := models.Coordinates{"Quito": {Lat: -0.1807, Lon: -78.4678}}

	c, err := coords.Lookup("Quito")
	require.NoError(t, err)
	assert.Equal(t, -0.1807, c.Lat)

	_, err = coords.Lookup("Tena")
	assert.ErrorIs(t, err, models.ErrMissingCoordinate)
}

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]models.Algorithm{
		"dijkstra": models.Dijkstra,
		" UCS ":    models.Dijkstra,
		"greedy":   models.Greedy,
		"voraz":    models.Greedy,
		"A*":       models.AStar,
		"astar":    models.AStar,
	}
	for in, want := range cases {
		got, err := models.ParseAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := models.ParseAlgorithm("bfs")
	assert.Error(t, err)
}
