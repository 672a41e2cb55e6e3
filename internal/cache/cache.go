// Package cache stores search results keyed by network snapshot so repeated
// queries skip the search. Keys embed the snapshot fingerprint; a changed
// network never serves stale routes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"road_routing/internal/models"
)

type RouteCache interface {
	// Get returns false when the key is absent or expired.
	Get(ctx context.Context, key string) (*models.SearchResult, bool, error)
	Put(ctx context.Context, key string, result *models.SearchResult) error
	Close() error
}

// Key builds the cache key of one search. City names are free text, so each
// is prefixed with its length to keep distinct pairs from colliding.
func Key(fingerprint uint64, alg models.Algorithm, origin, destination string) string {
	return fmt.Sprintf("route:%016x:%s:%d:%s:%d:%s", fingerprint, alg, len(origin), origin, len(destination), destination)
}

// entry is the stored form. Backends without native expiry honour
// ExpiresAt themselves.
type entry struct {
	ExpiresAt time.Time            `json:"expires_at,omitempty"`
	Result    *models.SearchResult `json:"result"`
}

func encode(result *models.SearchResult, ttl time.Duration, now time.Time) ([]byte, error) {
	e := entry{Result: result}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	return json.Marshal(e)
}

func decode(raw []byte, now time.Time) (*models.SearchResult, bool, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("decode cached route: %w", err)
	}
	if !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt) {
		return nil, false, nil
	}
	if e.Result == nil {
		return nil, false, nil
	}
	return e.Result, true, nil
}
