package repositories

import (
	"testing"
	"time"

	"road_routing/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoute(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should rebuild segments from stored lists", func(t *testing.T) {
		route, err := decodeRoute([]any{
			"r-1", "astar",
			[]any{"Quito", "Aloag", "Sto. Domingo"},
			[]any{25.0, int64(108)},
			int64(3), created,
		})
		require.NoError(t, err)
		assert.Equal(t, "r-1", route.ID)
		assert.Equal(t, created, route.CreatedAt)
		assert.Equal(t, models.AStar, route.Result.Algorithm)
		assert.Equal(t, []models.Segment{
			{From: "Quito", To: "Aloag", DistanceKm: 25},
			{From: "Aloag", To: "Sto. Domingo", DistanceKm: 108},
		}, route.Result.Segments)
		assert.Equal(t, 133.0, route.Result.TotalKm)
		assert.Equal(t, 3, route.Result.Expanded)
	})

	t.Run("should reject lists that do not line up", func(t *testing.T) {
		_, err := decodeRoute([]any{"r-2", "greedy", []any{"Quito", "Aloag"}, []any{}, int64(0), created})
		assert.Error(t, err)

		_, err = decodeRoute([]any{"r-3", "greedy", []any{"Quito", "Aloag"}, []any{"far"}, int64(0), created})
		assert.Error(t, err)
	})
}

func TestOptionalFloat(t *testing.T) {
	assert.Equal(t, 1.5, *optionalFloat(1.5))
	assert.Equal(t, 2.0, *optionalFloat(int64(2)))
	assert.Nil(t, optionalFloat(nil))
	assert.Nil(t, optionalFloat("x"))
}
