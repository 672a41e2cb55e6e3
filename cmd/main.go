// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"road_routing/internal/cache"
	"road_routing/internal/config"
	"road_routing/internal/database"
	"road_routing/internal/handlers"
	"road_routing/internal/metrics"
	"road_routing/internal/repositories"
	"road_routing/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	var (
		store  services.NetworkStore
		routes services.RouteStore
	)
	switch cfg.NetworkSource {
	case config.SourceNeo4j:
		db, err := database.NewNeo4jDatabase(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close(context.Background())

		if cfg.SeedFile != "" {
			if err := db.ExecuteCypherFile(ctx, cfg.SeedFile); err != nil {
				log.Printf("Warning: could not initialize DB: %v", err)
			} else {
				log.Println("Initial data loaded")
			}
		}
		store = repositories.NewCityRepository(db.Driver)
		routes = repositories.NewRouteRepository(db.Driver)

	case config.SourceSQLite:
		db, err := database.NewSQLiteDatabase(cfg.SQLitePath)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		if cfg.SeedFile != "" {
			if err := db.ExecuteSQLFile(ctx, cfg.SeedFile); err != nil {
				log.Printf("Warning: could not initialize DB: %v", err)
			} else {
				log.Println("Initial data loaded")
			}
		}
		repo := repositories.NewSQLiteRepository(db.DB)
		store, routes = repo, repo

	default:
		log.Fatalf("Unknown NETWORK_SOURCE %q", cfg.NetworkSource)
	}

	routingService := services.NewRoutingService(store, routes)
	routingService.Metrics = metrics.New(prometheus.DefaultRegisterer)
	routingService.ExpansionLimit = cfg.SearchExpansionLimit

	ttl := time.Duration(cfg.RouteCacheTTL) * time.Second
	switch cfg.RouteCache {
	case config.CachePebble:
		c, err := cache.NewPebbleCache(cfg.PebblePath, ttl)
		if err != nil {
			log.Fatal(err)
		}
		defer c.Close()
		routingService.Cache = c
	case config.CacheRedis:
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, ttl)
		if err != nil {
			log.Fatal(err)
		}
		defer c.Close()
		routingService.Cache = c
	case config.CacheNone, "":
	default:
		log.Fatalf("Unknown ROUTE_CACHE %q", cfg.RouteCache)
	}

	if err := routingService.Refresh(ctx); err != nil {
		log.Printf("Warning: road network not loaded yet: %v", err)
	}

	router := http.NewServeMux()
	handlers.NewHandler(routingService).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: corsHandler.Handler(router),
	}

	go func() {
		log.Printf("Server starting on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
