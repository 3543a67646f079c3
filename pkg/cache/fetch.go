package cache

import (
	"context"
	"time"

	"github.com/matzehuels/cardbuilder/pkg/observability"
)

// Fetch returns the cached value for key or computes, stores and returns it.
// Backend errors are logged and treated as misses. keyType labels the
// hook events.
func Fetch(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()
	logger := observability.Logger(ctx)

	data, hit, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
	}
	if hit {
		hooks.OnCacheHit(ctx, keyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err = compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return data, nil
	}
	hooks.OnCacheSet(ctx, keyType, len(data))
	return data, nil
}
