package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"road_routing/internal/models"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// SQLiteRepository keeps cities, distances and computed routes in a local
// SQLite file. Each road is stored in both directions.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// PutCity inserts a city or updates its coordinates.
func (r *SQLiteRepository) PutCity(ctx context.Context, city models.City) error {
	if city.Name == "" {
		return errors.New("city name is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ciudades (nombre, latitud, longitud) VALUES (?, ?, ?)
		ON CONFLICT(nombre) DO UPDATE SET latitud = excluded.latitud, longitud = excluded.longitud;
	`, city.Name, nullFloat(city.Latitude), nullFloat(city.Longitude))
	if err != nil {
		return fmt.Errorf("error saving city %s: %w", city.Name, err)
	}
	return nil
}

// PutConnection inserts or replaces the road between two cities in both
// directions. The road is left open.
func (r *SQLiteRepository) PutConnection(ctx context.Context, conn models.Connection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := putConnection(ctx, tx, conn); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveCity deletes a city together with its distances.
func (r *SQLiteRepository) RemoveCity(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM distancias WHERE origen = ? OR destino = ?;`, name, name); err != nil {
		return fmt.Errorf("error removing distances of %s: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM ciudades WHERE nombre = ?;`, name)
	if err != nil {
		return fmt.Errorf("error removing city %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrCityNotFound, name)
	}
	return tx.Commit()
}

func (r *SQLiteRepository) FindAll(ctx context.Context) ([]models.City, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT nombre, latitud, longitud FROM ciudades ORDER BY nombre;`)
	if err != nil {
		return nil, fmt.Errorf("error fetching cities: %w", err)
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var (
			name     string
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&name, &lat, &lon); err != nil {
			return nil, fmt.Errorf("error reading city: %w", err)
		}
		cities = append(cities, models.City{Name: name, Latitude: floatPtr(lat), Longitude: floatPtr(lon)})
	}
	return cities, rows.Err()
}

// LoadNetwork returns every city and every open road.
func (r *SQLiteRepository) LoadNetwork(ctx context.Context) ([]models.City, []models.Connection, error) {
	cities, err := r.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT origen, destino, distancia FROM distancias WHERE activa = 1 ORDER BY origen, destino;`)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching distances: %w", err)
	}
	defer rows.Close()

	var connections []models.Connection
	for rows.Next() {
		var c models.Connection
		if err := rows.Scan(&c.From, &c.To, &c.DistanceKm); err != nil {
			return nil, nil, fmt.Errorf("error reading distance: %w", err)
		}
		connections = append(connections, c)
	}
	return cities, connections, rows.Err()
}

// CreateCityWithConnections adds or updates a city and its roads in one
// transaction.
func (r *SQLiteRepository) CreateCityWithConnections(ctx context.Context, city models.City, connections []models.Connection) error {
	if city.Name == "" {
		return errors.New("city name is required")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ciudades (nombre, latitud, longitud) VALUES (?, ?, ?)
		ON CONFLICT(nombre) DO UPDATE SET latitud = excluded.latitud, longitud = excluded.longitud;
	`, city.Name, nullFloat(city.Latitude), nullFloat(city.Longitude))
	if err != nil {
		return fmt.Errorf("error saving city %s: %w", city.Name, err)
	}
	for _, conn := range connections {
		if err := putConnection(ctx, tx, conn); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func putConnection(ctx context.Context, tx *sql.Tx, conn models.Connection) error {
	for _, pair := range [][2]string{{conn.From, conn.To}, {conn.To, conn.From}} {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO distancias (origen, destino, distancia, activa) VALUES (?, ?, ?, 1);
		`, pair[0], pair[1], conn.DistanceKm)
		var sqErr sqlite3.Error
		if errors.As(err, &sqErr) && sqErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%w: %s or %s", ErrCityNotFound, conn.From, conn.To)
		}
		if err != nil {
			return fmt.Errorf("error saving connection %s-%s: %w", conn.From, conn.To, err)
		}
	}
	return nil
}

// UpdateConnectionDistance changes the length of an existing road.
func (r *SQLiteRepository) UpdateConnectionDistance(ctx context.Context, from, to string, km float64) error {
	if err := r.updateConnection(ctx, from, to, "distancia", km); err != nil {
		return fmt.Errorf("error updating distance between %s and %s: %w", from, to, err)
	}
	return nil
}

// CloseConnection marks a road as closed. Closed roads are left out of the
// network on the next load.
func (r *SQLiteRepository) CloseConnection(ctx context.Context, from, to string) error {
	if err := r.updateConnection(ctx, from, to, "activa", 0); err != nil {
		return fmt.Errorf("error closing connection between %s and %s: %w", from, to, err)
	}
	return nil
}

// OpenConnection reopens a closed road.
func (r *SQLiteRepository) OpenConnection(ctx context.Context, from, to string) error {
	if err := r.updateConnection(ctx, from, to, "activa", 1); err != nil {
		return fmt.Errorf("error opening connection between %s and %s: %w", from, to, err)
	}
	return nil
}

// updateConnection sets one column on both directions of a road. column is
// never user input.
func (r *SQLiteRepository) updateConnection(ctx context.Context, from, to, column string, value any) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE distancias SET `+column+` = ?
		WHERE (origen = ? AND destino = ?) OR (origen = ? AND destino = ?);
	`, value, from, to, to, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

// SaveRoute stores a result and its segments, replacing any route saved
// earlier between the same origin and destination.
func (r *SQLiteRepository) SaveRoute(ctx context.Context, result models.SearchResult) (models.SavedRoute, error) {
	saved := models.SavedRoute{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.SavedRoute{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM tramos_ruta WHERE ruta_id IN (SELECT id FROM rutas_calculadas WHERE origen = ? AND destino = ?);
	`, result.Origin(), result.Destination()); err != nil {
		return models.SavedRoute{}, fmt.Errorf("error replacing route: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rutas_calculadas WHERE origen = ? AND destino = ?;`,
		result.Origin(), result.Destination()); err != nil {
		return models.SavedRoute{}, fmt.Errorf("error replacing route: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rutas_calculadas (id, origen, destino, algoritmo, distancia_total, nodos_expandidos, creada_en)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`, saved.ID, result.Origin(), result.Destination(), string(result.Algorithm), result.TotalKm, result.Expanded, saved.CreatedAt)
	if err != nil {
		return models.SavedRoute{}, fmt.Errorf("error saving route: %w", err)
	}

	for i, s := range result.Segments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tramos_ruta (ruta_id, orden, origen, destino, distancia) VALUES (?, ?, ?, ?, ?);
		`, saved.ID, i+1, s.From, s.To, s.DistanceKm)
		if err != nil {
			return models.SavedRoute{}, fmt.Errorf("error saving segment %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.SavedRoute{}, err
	}
	return saved, nil
}

// ListRoutes returns the most recent routes first.
func (r *SQLiteRepository) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, origen, algoritmo, distancia_total, nodos_expandidos, creada_en
		FROM rutas_calculadas ORDER BY creada_en DESC, id LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing routes: %w", err)
	}

	var routes []models.SavedRoute
	for rows.Next() {
		var (
			route  models.SavedRoute
			origin string
			alg    string
		)
		if err := rows.Scan(&route.ID, &origin, &alg, &route.Result.TotalKm, &route.Result.Expanded, &route.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error reading route: %w", err)
		}
		route.Result.Algorithm = models.Algorithm(alg)
		route.Result.Path = []string{origin}
		routes = append(routes, route)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range routes {
		if err := r.loadSegments(ctx, &routes[i].Result, routes[i].ID); err != nil {
			return nil, err
		}
	}
	return routes, nil
}

func (r *SQLiteRepository) loadSegments(ctx context.Context, result *models.SearchResult, id string) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT origen, destino, distancia FROM tramos_ruta WHERE ruta_id = ? ORDER BY orden;
	`, id)
	if err != nil {
		return fmt.Errorf("error loading segments of %s: %w", id, err)
	}
	defer rows.Close()

	result.Segments = []models.Segment{}
	for rows.Next() {
		var s models.Segment
		if err := rows.Scan(&s.From, &s.To, &s.DistanceKm); err != nil {
			return fmt.Errorf("error reading segment: %w", err)
		}
		result.Segments = append(result.Segments, s)
		result.Path = append(result.Path, s.To)
	}
	return rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}
