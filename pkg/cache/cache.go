// Package cache stores rendered artifacts keyed by layout content.
//
// Renders of the same layout are identical, so keys derive from
// [layout.Fingerprint] plus the render options. Three backends exist:
//   - [FileCache]: entries as JSON files, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// Cache lookups never fail an operation. Callers treat errors as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
