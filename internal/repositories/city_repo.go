package repositories

import (
	"context"
	"fmt"

	"road_routing/internal/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CityRepository stores the road network as (:Ciudad)-[:CONECTA]->(:Ciudad).
// Roads are undirected for searching; a single relationship per pair is
// enough and its direction carries no meaning.
type CityRepository struct {
	Driver neo4j.DriverWithContext
}

func NewCityRepository(driver neo4j.DriverWithContext) *CityRepository {
	return &CityRepository{Driver: driver}
}

func (r *CityRepository) FindAll(ctx context.Context) ([]models.City, error) {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (c:Ciudad)
        RETURN c.nombre AS nombre, c.latitud AS latitud, c.longitud AS longitud
        ORDER BY c.nombre
        `
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var cities []models.City
		for result.Next(ctx) {
			record := result.Record()
			name, _ := record.Values[0].(string)
			cities = append(cities, models.City{
				Name:      name,
				Latitude:  optionalFloat(record.Values[1]),
				Longitude: optionalFloat(record.Values[2]),
			})
		}
		return cities, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching cities: %w", err)
	}

	return result.([]models.City), nil
}

// LoadNetwork returns every city and every active connection.
func (r *CityRepository) LoadNetwork(ctx context.Context) ([]models.City, []models.Connection, error) {
	cities, err := r.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (a:Ciudad)-[rel:CONECTA]->(b:Ciudad)
        WHERE COALESCE(rel.activa, TRUE)
        RETURN a.nombre AS origen, b.nombre AS destino, rel.distancia_km AS distancia
        ORDER BY origen, destino
        `
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var connections []models.Connection
		for result.Next(ctx) {
			record := result.Record()
			from, _ := record.Values[0].(string)
			to, _ := record.Values[1].(string)
			km := optionalFloat(record.Values[2])
			if km == nil {
				continue
			}
			connections = append(connections, models.Connection{From: from, To: to, DistanceKm: *km})
		}
		return connections, result.Err()
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error loading connections: %w", err)
	}

	return cities, result.([]models.Connection), nil
}

// CreateCityWithConnections adds a city and its roads to existing cities
// in one transaction.
func (r *CityRepository) CreateCityWithConnections(ctx context.Context, city models.City, connections []models.Connection) error {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		cityParams := map[string]any{
			"nombre":   city.Name,
			"latitud":  nil,
			"longitud": nil,
		}
		if coord, ok := city.Coordinate(); ok {
			cityParams["latitud"] = coord.Lat
			cityParams["longitud"] = coord.Lon
		}
		_, err := tx.Run(ctx, `
        MERGE (c:Ciudad {nombre: $nombre})
        SET c.latitud = $latitud, c.longitud = $longitud
        `, cityParams)
		if err != nil {
			return nil, fmt.Errorf("error creating city %s: %w", city.Name, err)
		}

		run := countQuery(ctx, tx)
		for _, conn := range connections {
			if err := mergeConnection(run, conn); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("error in CreateCityWithConnections: %w", err)
	}
	return nil
}

// UpdateConnectionDistance changes the length of the road between two cities.
func (r *CityRepository) UpdateConnectionDistance(ctx context.Context, from, to string, km float64) error {
	err := r.setConnection(ctx, from, to, "SET rel.distancia_km = $value", km)
	if err != nil {
		return fmt.Errorf("error updating distance between %s and %s: %w", from, to, err)
	}
	return nil
}

// CloseConnection marks a road as closed. Closed roads are left out of the
// network on the next load.
func (r *CityRepository) CloseConnection(ctx context.Context, from, to string) error {
	if err := r.setConnection(ctx, from, to, "SET rel.activa = $value", false); err != nil {
		return fmt.Errorf("error closing connection between %s and %s: %w", from, to, err)
	}
	return nil
}

// OpenConnection reopens a closed road.
func (r *CityRepository) OpenConnection(ctx context.Context, from, to string) error {
	if err := r.setConnection(ctx, from, to, "SET rel.activa = $value", true); err != nil {
		return fmt.Errorf("error opening connection between %s and %s: %w", from, to, err)
	}
	return nil
}

func (r *CityRepository) setConnection(ctx context.Context, from, to, set string, value any) error {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, updateConnection(countQuery(ctx, tx), from, to, set, value)
	})
	return err
}

// countRunner runs a query whose single record holds one count.
type countRunner func(cypher string, params map[string]any) (int64, error)

func countQuery(ctx context.Context, tx neo4j.ManagedTransaction) countRunner {
	return func(cypher string, params map[string]any) (int64, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return 0, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return 0, err
		}
		n, _ := record.Values[0].(int64)
		return n, nil
	}
}

// mergeConnection creates or reopens the road of conn. Both cities must
// already exist.
func mergeConnection(run countRunner, conn models.Connection) error {
	n, err := run(`
    MATCH (a:Ciudad {nombre: $from}), (b:Ciudad {nombre: $to})
    MERGE (a)-[rel:CONECTA]-(b)
    SET rel.distancia_km = $distancia, rel.activa = TRUE
    RETURN count(rel) AS merged
    `, map[string]any{
		"from":      conn.From,
		"to":        conn.To,
		"distancia": conn.DistanceKm,
	})
	if err != nil {
		return fmt.Errorf("error creating connection from %s to %s: %w", conn.From, conn.To, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s or %s", ErrCityNotFound, conn.From, conn.To)
	}
	return nil
}

func updateConnection(run countRunner, from, to, set string, value any) error {
	n, err := run(`
    MATCH (:Ciudad {nombre: $from})-[rel:CONECTA]-(:Ciudad {nombre: $to})
    `+set+`
    RETURN count(rel) AS updated
    `, map[string]any{"from": from, "to": to, "value": value})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

// optionalFloat reads a numeric property that may be missing or stored as
// an integer.
func optionalFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}
