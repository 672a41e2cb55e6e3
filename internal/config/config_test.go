package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should fall back to defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		for _, key := range []string{"PORT", "NETWORK_SOURCE", "ROUTE_CACHE", "CORS_ALLOWED_ORIGINS", "SEARCH_EXPANSION_LIMIT"} {
			t.Setenv(key, "")
		}
		t.Setenv("PORT", "not-a-number")

		cfg := LoadConfig()
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 0, cfg.SearchExpansionLimit)
	})

	t.Run("should read overrides from the environment", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("PORT", "9090")
		t.Setenv("NETWORK_SOURCE", "Neo4j")
		t.Setenv("ROUTE_CACHE", "redis")
		t.Setenv("ROUTE_CACHE_TTL_SECONDS", "60")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
		t.Setenv("SEARCH_EXPANSION_LIMIT", "500")

		cfg := LoadConfig()
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, SourceNeo4j, cfg.NetworkSource)
		assert.Equal(t, CacheRedis, cfg.RouteCache)
		assert.Equal(t, 60, cfg.RouteCacheTTL)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
		assert.Equal(t, 500, cfg.SearchExpansionLimit)
	})
}

func TestGetEnvAsList(t *testing.T) {
	assert.Equal(t, []string{"x"}, getEnvAsList("ROAD_ROUTING_UNSET_LIST", []string{"x"}))
	t.Setenv("ROAD_ROUTING_LIST", "a,b")
	assert.Equal(t, []string{"a", "b"}, getEnvAsList("ROAD_ROUTING_LIST", nil))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
