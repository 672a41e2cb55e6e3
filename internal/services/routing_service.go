package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"road_routing/internal/cache"
	"road_routing/internal/geo"
	"road_routing/internal/metrics"
	"road_routing/internal/models"
	"road_routing/internal/search"
)

var (
	ErrNetworkNotLoaded = errors.New("road network not loaded")
	ErrNoRouteStore     = errors.New("route storage not configured")
)

// NetworkStore is where the road network lives. Both the SQLite and the
// Neo4j repositories implement it.
type NetworkStore interface {
	LoadNetwork(ctx context.Context) ([]models.City, []models.Connection, error)
	CreateCityWithConnections(ctx context.Context, city models.City, connections []models.Connection) error
	UpdateConnectionDistance(ctx context.Context, from, to string, km float64) error
	CloseConnection(ctx context.Context, from, to string) error
	OpenConnection(ctx context.Context, from, to string) error
}

type RouteStore interface {
	SaveRoute(ctx context.Context, result models.SearchResult) (models.SavedRoute, error)
	ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error)
}

// RoutingService answers route queries against an immutable snapshot of the
// network. Refresh builds a new snapshot and swaps it in; searches already
// running keep the one they started with.
type RoutingService struct {
	Store   NetworkStore
	Routes  RouteStore       // optional
	Cache   cache.RouteCache // optional
	Metrics *metrics.Metrics // optional

	ExpansionLimit int

	// refreshMu orders reloads so an older load is never installed over a
	// newer one.
	refreshMu sync.Mutex
	mu        sync.RWMutex
	network   *models.Network
}

func NewRoutingService(store NetworkStore, routes RouteStore) *RoutingService {
	return &RoutingService{Store: store, Routes: routes}
}

// Refresh reloads the network from the store.
func (s *RoutingService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	cities, connections, err := s.Store.LoadNetwork(ctx)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	network, warnings := models.BuildNetwork(cities, connections)
	for _, w := range warnings {
		log.Printf("Warning: %v", w)
	}
	if comps := search.Components(network.Graph); len(comps) > 1 {
		log.Printf("Warning: road network is not connected, %d components", len(comps))
		for i, c := range comps {
			log.Printf("  component %d has %d cities: %v", i+1, len(c), c)
		}
	}

	s.mu.Lock()
	s.network = network
	s.mu.Unlock()

	if s.Metrics != nil {
		s.Metrics.ObserveNetwork(network.Graph.Len(), network.Graph.EdgeCount())
	}
	log.Printf("Road network loaded: %d cities, %d connections", network.Graph.Len(), network.Graph.EdgeCount())
	return nil
}

// Network returns the current snapshot.
func (s *RoutingService) Network() (*models.Network, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.network == nil {
		return nil, ErrNetworkNotLoaded
	}
	return s.network, nil
}

func (s *RoutingService) Cities() ([]models.City, error) {
	n, err := s.Network()
	if err != nil {
		return nil, err
	}
	return n.Cities, nil
}

func (s *RoutingService) searchOptions() []search.Option {
	if s.ExpansionLimit > 0 {
		return []search.Option{search.WithExpansionLimit(s.ExpansionLimit)}
	}
	return nil
}

// FindRoute runs one strategy. Successful results are cached per snapshot;
// cache failures are logged and never fail the search.
func (s *RoutingService) FindRoute(ctx context.Context, from, to string, alg models.Algorithm) (*models.SearchResult, error) {
	n, err := s.Network()
	if err != nil {
		return nil, err
	}

	key := cache.Key(n.Fingerprint(), alg, from, to)
	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("Warning: route cache read failed: %v", err)
		} else if ok && servesQuery(cached, from, to) {
			if s.Metrics != nil {
				s.Metrics.CacheHits.Inc()
			}
			return cached, nil
		}
	}

	start := time.Now()
	result, err := search.Run(ctx, alg, n.Graph, from, to, geo.NewHeuristic(n.Coordinates), s.searchOptions()...)
	if s.Metrics != nil {
		s.Metrics.ObserveSearch(string(alg), search.Classify(err), time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, result); err != nil {
			log.Printf("Warning: route cache write failed: %v", err)
		}
	}
	return result, nil
}

func servesQuery(r *models.SearchResult, from, to string) bool {
	return r != nil && len(r.Path) > 0 && r.Path[0] == from && r.Path[len(r.Path)-1] == to
}

// Compare runs every strategy on the same snapshot.
func (s *RoutingService) Compare(ctx context.Context, from, to string) (search.Comparison, error) {
	n, err := s.Network()
	if err != nil {
		return nil, err
	}
	cmp := search.Compare(ctx, n.Graph, from, to, geo.NewHeuristic(n.Coordinates), s.searchOptions()...)
	if s.Metrics != nil {
		for alg, out := range cmp {
			s.Metrics.CountSearch(string(alg), search.Classify(out.Err))
		}
	}
	return cmp, nil
}

func (s *RoutingService) Reachable(ctx context.Context, from string, maxKm float64) ([]search.Reach, error) {
	n, err := s.Network()
	if err != nil {
		return nil, err
	}
	return search.Reachable(ctx, n.Graph, from, maxKm)
}

func (s *RoutingService) Components() ([][]string, error) {
	n, err := s.Network()
	if err != nil {
		return nil, err
	}
	return search.Components(n.Graph), nil
}

func (s *RoutingService) SaveRoute(ctx context.Context, result *models.SearchResult) (models.SavedRoute, error) {
	if s.Routes == nil {
		return models.SavedRoute{}, ErrNoRouteStore
	}
	return s.Routes.SaveRoute(ctx, *result)
}

func (s *RoutingService) ListRoutes(ctx context.Context, limit int) ([]models.SavedRoute, error) {
	if s.Routes == nil {
		return nil, ErrNoRouteStore
	}
	return s.Routes.ListRoutes(ctx, limit)
}

// AddCity stores a city with its roads and reloads the network.
func (s *RoutingService) AddCity(ctx context.Context, city models.City, connections []models.Connection) error {
	if err := s.Store.CreateCityWithConnections(ctx, city, connections); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *RoutingService) UpdateConnectionDistance(ctx context.Context, from, to string, km float64) error {
	if err := s.Store.UpdateConnectionDistance(ctx, from, to, km); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *RoutingService) CloseConnection(ctx context.Context, from, to string) error {
	if err := s.Store.CloseConnection(ctx, from, to); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *RoutingService) OpenConnection(ctx context.Context, from, to string) error {
	if err := s.Store.OpenConnection(ctx, from, to); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
