package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("should create the schema idempotently", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rutas.db")
		db, err := NewSQLiteDatabase(path)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = NewSQLiteDatabase(path)
		require.NoError(t, err)
		defer db.Close()

		for _, table := range []string{"ciudades", "distancias", "rutas_calculadas", "tramos_ruta"} {
			var name string
			err := db.DB.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			assert.NoError(t, err, table)
		}
	})

	t.Run("should load the seed script", func(t *testing.T) {
		db, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), "rutas.db"))
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.ExecuteSQLFile(ctx, filepath.Join("..", "..", "scripts", "data.sql")))

		var cities, roads int
		require.NoError(t, db.DB.QueryRowContext(ctx, `SELECT count(*) FROM ciudades`).Scan(&cities))
		require.NoError(t, db.DB.QueryRowContext(ctx, `SELECT count(*) FROM distancias`).Scan(&roads))
		assert.Equal(t, 14, cities)
		assert.Equal(t, 30, roads)

		assert.Error(t, db.ExecuteSQLFile(ctx, "missing.sql"))
	})
}
