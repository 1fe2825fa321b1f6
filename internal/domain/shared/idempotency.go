package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys that have already
// been executed, together with the ID of the resource they produced.
// It is a cache in front of the authoritative unique key stored with the
// resource itself; losing an entry only costs one extra database lookup.
type IdempotencyStore interface {
	// Remember associates key with resultID for ttl.
	// Returns true if the key was newly stored, false if it already existed.
	Remember(ctx context.Context, key, resultID string, ttl time.Duration) (bool, error)

	// Lookup returns the result ID stored for key and whether it was found
	Lookup(ctx context.Context, key string) (string, bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed key is remembered by the cache. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether the cache is consulted at all. Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
