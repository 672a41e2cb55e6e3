package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"road_routing/internal/models"

	"github.com/cockroachdb/pebble"
)

// PebbleCache keeps routes in a local Pebble store. Expired entries are
// dropped lazily on read.
type PebbleCache struct {
	db  *pebble.DB
	ttl time.Duration
	now func() time.Time
}

func NewPebbleCache(dbPath string, ttl time.Duration) (*PebbleCache, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("could not open Pebble database: %w", err)
	}
	return &PebbleCache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *PebbleCache) Get(_ context.Context, key string) (*models.SearchResult, bool, error) {
	raw, closer, err := c.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pebble get %s: %w", key, err)
	}
	result, ok, err := decode(raw, c.now())
	closer.Close()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if err := c.db.Delete([]byte(key), pebble.NoSync); err != nil {
			return nil, false, fmt.Errorf("pebble delete %s: %w", key, err)
		}
	}
	return result, ok, nil
}

func (c *PebbleCache) Put(_ context.Context, key string, result *models.SearchResult) error {
	raw, err := encode(result, c.ttl, c.now())
	if err != nil {
		return err
	}
	if err := c.db.Set([]byte(key), raw, pebble.NoSync); err != nil {
		return fmt.Errorf("pebble set %s: %w", key, err)
	}
	return nil
}

func (c *PebbleCache) Close() error {
	return c.db.Close()
}
