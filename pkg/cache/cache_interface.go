package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Repositories depend on this
// interface, not on the Redis client, so implementations can be swapped
// (Redis, in-memory for tests).
type Cache interface {
	// Get reads data from cache and unmarshals into dest.
	// found = true: cache hit, data unmarshaled into dest.
	// found = false: cache miss, dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores data in cache with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	// (used to drop whole listing families on mutation).
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
