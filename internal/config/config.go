package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// getEnv returns an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns an environment variable as an int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

const (
	SourceSQLite = "sqlite"
	SourceNeo4j  = "neo4j"

	CacheNone   = "none"
	CachePebble = "pebble"
	CacheRedis  = "redis"
)

type Config struct {
	Port int

	NetworkSource string
	SQLitePath    string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	SeedFile      string // optional .cypher or .sql script run at startup

	RouteCache    string
	PebblePath    string
	RedisAddr     string
	RouteCacheTTL int // seconds, 0 keeps entries until the network changes

	AllowedOrigins       []string
	SearchExpansionLimit int // 0 means unlimited
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	return &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		NetworkSource:        strings.ToLower(getEnv("NETWORK_SOURCE", SourceSQLite)),
		SQLitePath:           getEnv("SQLITE_PATH", "rutas_ecuador.db"),
		Neo4jURI:             getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:            getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:        getEnv("NEO4J_PASSWORD", "12345678"),
		SeedFile:             getEnv("SEED_FILE", ""),
		RouteCache:           strings.ToLower(getEnv("ROUTE_CACHE", CacheNone)),
		PebblePath:           getEnv("PEBBLE_PATH", "route-cache"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RouteCacheTTL:        getEnvAsInt("ROUTE_CACHE_TTL_SECONDS", 3600),
		AllowedOrigins:       getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SearchExpansionLimit: getEnvAsInt("SEARCH_EXPANSION_LIMIT", 0),
	}
}
