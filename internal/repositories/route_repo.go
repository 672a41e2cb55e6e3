package repositories

import (
	"context"
	"fmt"
	"time"

	"road_routing/internal/models"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// RouteRepository keeps computed routes in Neo4j as (:RutaCalculada) nodes
// linked to their origin and destination cities.
type RouteRepository struct {
	Driver neo4j.DriverWithContext
}

func NewRouteRepository(driver neo4j.DriverWithContext) *RouteRepository {
	return &RouteRepository{Driver: driver}
}

// SaveRoute stores a result, replacing any route saved earlier between the
// same origin and destination.
func (r *RouteRepository) SaveRoute(ctx context.Context, result models.SearchResult) (models.SavedRoute, error) {
	saved := models.SavedRoute{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}

	distances := make([]float64, len(result.Segments))
	for i, s := range result.Segments {
		distances[i] = s.DistanceKm
	}

	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
        MATCH (old:RutaCalculada {origen: $origen, destino: $destino})
        DETACH DELETE old
        `, map[string]any{"origen": result.Origin(), "destino": result.Destination()})
		if err != nil {
			return nil, err
		}

		_, err = tx.Run(ctx, `
        CREATE (r:RutaCalculada {
            id: $id, origen: $origen, destino: $destino, algoritmo: $algoritmo,
            distancia_total: $total, nodos_expandidos: $expandidos,
            ciudades: $ciudades, distancias: $distancias, creada_en: $creada
        })
        WITH r
        MATCH (a:Ciudad {nombre: $origen}), (b:Ciudad {nombre: $destino})
        MERGE (r)-[:DESDE]->(a)
        MERGE (r)-[:HASTA]->(b)
        `, map[string]any{
			"id":         saved.ID,
			"origen":     result.Origin(),
			"destino":    result.Destination(),
			"algoritmo":  string(result.Algorithm),
			"total":      result.TotalKm,
			"expandidos": result.Expanded,
			"ciudades":   result.Path,
			"distancias": distances,
			"creada":     saved.CreatedAt,
		})
		return nil, err
	})
	if err != nil {
		return models.SavedRoute{}, fmt.Errorf("error saving route %s-%s: %w", result.Origin(), result.Destination(), err)
	}
	return saved, nil
}

// ListRoutes returns the most recent routes first.
func (r *RouteRepository) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (r:RutaCalculada)
        RETURN r.id, r.algoritmo, r.ciudades, r.distancias, r.nodos_expandidos, r.creada_en
        ORDER BY r.creada_en DESC
        LIMIT $limit
        `
		result, err := tx.Run(ctx, query, map[string]any{"limit": limit})
		if err != nil {
			return nil, err
		}

		var routes []models.SavedRoute
		for result.Next(ctx) {
			record := result.Record()
			route, err := decodeRoute(record.Values)
			if err != nil {
				return nil, err
			}
			routes = append(routes, route)
		}
		return routes, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("error listing routes: %w", err)
	}
	return result.([]models.SavedRoute), nil
}

func decodeRoute(values []any) (models.SavedRoute, error) {
	id, _ := values[0].(string)
	alg, _ := values[1].(string)
	rawPath, _ := values[2].([]any)
	rawDist, _ := values[3].([]any)
	expanded, _ := values[4].(int64)
	created, _ := values[5].(time.Time)

	if len(rawPath) == 0 || len(rawDist) != len(rawPath)-1 {
		return models.SavedRoute{}, fmt.Errorf("route %s is malformed", id)
	}

	path := make([]string, len(rawPath))
	for i, v := range rawPath {
		path[i], _ = v.(string)
	}
	result := models.SearchResult{
		Algorithm: models.Algorithm(alg),
		Path:      path,
		Segments:  make([]models.Segment, 0, len(rawDist)),
		Expanded:  int(expanded),
	}
	for i, v := range rawDist {
		km := optionalFloat(v)
		if km == nil {
			return models.SavedRoute{}, fmt.Errorf("route %s has a segment without distance", id)
		}
		result.Segments = append(result.Segments, models.Segment{From: path[i], To: path[i+1], DistanceKm: *km})
		result.TotalKm += *km
	}

	return models.SavedRoute{ID: id, CreatedAt: created, Result: result}, nil
}
