package repositories_test

import (
	"context"
	"path/filepath"
	"testing"

	"road_routing/internal/database"
	"road_routing/internal/models"
	"road_routing/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func setupRepo(t *testing.T) *repositories.SQLiteRepository {
	t.Helper()
	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "rutas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repositories.NewSQLiteRepository(db.DB)
}

func seed(t *testing.T, repo *repositories.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.PutCity(ctx, models.City{Name: "Quito", Latitude: ptr(-0.1807), Longitude: ptr(-78.4678)}))
	require.NoError(t, repo.PutCity(ctx, models.City{Name: "Aloag", Latitude: ptr(-0.4577), Longitude: ptr(-78.5814)}))
	require.NoError(t, repo.PutCity(ctx, models.City{Name: "Baeza"}))
	require.NoError(t, repo.PutConnection(ctx, models.Connection{From: "Quito", To: "Aloag", DistanceKm: 25}))
	require.NoError(t, repo.PutConnection(ctx, models.Connection{From: "Quito", To: "Baeza", DistanceKm: 105}))
}

func TestSQLiteRepositoryNetwork(t *testing.T) {
	ctx := context.Background()

	t.Run("should load cities and both directions of every road", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)

		cities, connections, err := repo.LoadNetwork(ctx)
		require.NoError(t, err)
		assert.Len(t, cities, 3)
		assert.Len(t, connections, 4)

		network, warnings := models.BuildNetwork(cities, connections)
		assert.Empty(t, warnings)
		assert.Equal(t, 2, network.Graph.EdgeCount())
		assert.Len(t, network.Coordinates, 2)
	})

	t.Run("should update a city in place", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)
		require.NoError(t, repo.PutCity(ctx, models.City{Name: "Baeza", Latitude: ptr(-0.4617), Longitude: ptr(-77.8906)}))

		cities, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, cities, 3)
		assert.Equal(t, "Baeza", cities[1].Name)
		require.NotNil(t, cities[1].Latitude)
		assert.Equal(t, -0.4617, *cities[1].Latitude)
	})

	t.Run("should replace a road distance", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)
		require.NoError(t, repo.PutConnection(ctx, models.Connection{From: "Aloag", To: "Quito", DistanceKm: 30}))

		_, connections, err := repo.LoadNetwork(ctx)
		require.NoError(t, err)
		assert.Len(t, connections, 4)
		for _, c := range connections {
			if (c.From == "Quito" && c.To == "Aloag") || (c.From == "Aloag" && c.To == "Quito") {
				assert.Equal(t, 30.0, c.DistanceKm)
			}
		}
	})

	t.Run("should remove a city with its roads", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)
		require.NoError(t, repo.RemoveCity(ctx, "Baeza"))

		cities, connections, err := repo.LoadNetwork(ctx)
		require.NoError(t, err)
		assert.Len(t, cities, 2)
		assert.Len(t, connections, 2)

		assert.ErrorIs(t, repo.RemoveCity(ctx, "Baeza"), repositories.ErrCityNotFound)
	})

	t.Run("should leave closed roads out of the network", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)
		require.NoError(t, repo.CloseConnection(ctx, "Aloag", "Quito"))

		_, connections, err := repo.LoadNetwork(ctx)
		require.NoError(t, err)
		assert.Len(t, connections, 2)

		require.NoError(t, repo.OpenConnection(ctx, "Quito", "Aloag"))
		_, connections, err = repo.LoadNetwork(ctx)
		require.NoError(t, err)
		assert.Len(t, connections, 4)

		assert.ErrorIs(t, repo.CloseConnection(ctx, "Aloag", "Baeza"), repositories.ErrConnectionNotFound)
	})

	t.Run("should create a city with its roads", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)
		err := repo.CreateCityWithConnections(ctx,
			models.City{Name: "Machachi", Latitude: ptr(-0.5104), Longitude: ptr(-78.5671)},
			[]models.Connection{{From: "Machachi", To: "Aloag", DistanceKm: 9}},
		)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateConnectionDistance(ctx, "Aloag", "Machachi", 10))

		cities, connections, err := repo.LoadNetwork(ctx)
		require.NoError(t, err)
		network, warnings := models.BuildNetwork(cities, connections)
		assert.Empty(t, warnings)
		w, ok := network.Graph.Weight("Machachi", "Aloag")
		require.True(t, ok)
		assert.Equal(t, 10.0, w)

		assert.ErrorIs(t, repo.UpdateConnectionDistance(ctx, "Machachi", "Baeza", 5), repositories.ErrConnectionNotFound)
	})

	t.Run("should reject roads to unknown cities", func(t *testing.T) {
		repo := setupRepo(t)
		seed(t, repo)
		err := repo.CreateCityWithConnections(ctx,
			models.City{Name: "Tambillo"},
			[]models.Connection{{From: "Tambillo", To: "Nowhere", DistanceKm: 5}},
		)
		assert.ErrorIs(t, err, repositories.ErrCityNotFound)

		cities, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, cities, 3, "the city is rolled back with its roads")
	})

	t.Run("should reject unnamed cities", func(t *testing.T) {
		repo := setupRepo(t)
		assert.Error(t, repo.PutCity(ctx, models.City{}))
	})
}

func TestSQLiteRepositoryRoutes(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	seed(t, repo)

	result := models.SearchResult{
		Algorithm: models.Dijkstra,
		Path:      []string{"Aloag", "Quito", "Baeza"},
		Segments: []models.Segment{
			{From: "Aloag", To: "Quito", DistanceKm: 25},
			{From: "Quito", To: "Baeza", DistanceKm: 105},
		},
		TotalKm: 130,
	}

	first, err := repo.SaveRoute(ctx, result)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := repo.SaveRoute(ctx, result)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	routes, err := repo.ListRoutes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, routes, 1, "saving the same pair again replaces the old route")
	assert.Equal(t, second.ID, routes[0].ID)
	assert.Equal(t, result.Path, routes[0].Result.Path)
	assert.Equal(t, result.Segments, routes[0].Result.Segments)
	assert.Equal(t, 130.0, routes[0].Result.TotalKm)
	assert.Equal(t, models.Dijkstra, routes[0].Result.Algorithm)

	single := models.SearchResult{Algorithm: models.AStar, Path: []string{"Quito"}, Segments: []models.Segment{}}
	_, err = repo.SaveRoute(ctx, single)
	require.NoError(t, err)

	routes, err = repo.ListRoutes(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, routes, 1)
}

func TestSQLiteRepositoryReseed(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "rutas.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := repositories.NewSQLiteRepository(db.DB)
	script := filepath.Join("..", "..", "scripts", "data.sql")

	require.NoError(t, db.ExecuteSQLFile(ctx, script))
	require.NoError(t, repo.CreateCityWithConnections(ctx,
		models.City{Name: "Cayambe", Latitude: ptr(-0.0406), Longitude: ptr(-78.1453)},
		[]models.Connection{{From: "Cayambe", To: "Quito", DistanceKm: 78}},
	))
	require.NoError(t, repo.CloseConnection(ctx, "Latacunga", "Ambato"))
	require.NoError(t, repo.UpdateConnectionDistance(ctx, "Quito", "Aloag", 33))

	require.NoError(t, db.ExecuteSQLFile(ctx, script))

	cities, connections, err := repo.LoadNetwork(ctx)
	require.NoError(t, err)
	network, _ := models.BuildNetwork(cities, connections)

	t.Run("should keep roads added after the first run", func(t *testing.T) {
		w, ok := network.Graph.Weight("Cayambe", "Quito")
		require.True(t, ok)
		assert.Equal(t, 78.0, w)
	})

	t.Run("should keep closed roads closed", func(t *testing.T) {
		_, ok := network.Graph.Weight("Latacunga", "Ambato")
		assert.False(t, ok)
	})

	t.Run("should keep edited distances", func(t *testing.T) {
		w, ok := network.Graph.Weight("Quito", "Aloag")
		require.True(t, ok)
		assert.Equal(t, 33.0, w)
	})

	t.Run("should not duplicate seeded rows", func(t *testing.T) {
		assert.Len(t, cities, 15)
		assert.Len(t, connections, 30)
	})
}
