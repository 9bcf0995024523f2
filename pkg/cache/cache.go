// Package cache stores solve results keyed by the polynomial and the options
// that determine the outcome.
//
// A solve is deterministic once the seed is fixed, so its result can be
// reused across CLI invocations (FileCache) or across server replicas
// (RedisCache). NullCache disables caching.
//
// Keys are built by a Keyer so the layout stays consistent between backends:
//
//	key := cache.NewDefaultKeyer().SolveKey(cache.Hash(coeffs), cache.SolveKeyOpts{Seed: 42})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLSolve is how long a solve result stays cached.
const TTLSolve = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
