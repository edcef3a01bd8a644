package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmorenoc/retail-pos-platform/internal/config"
)

// storeCache keeps JSON-encoded store data (the product catalog, mostly) in
// Redis. Every entry expires; the database is always the source of truth, so
// losing the whole cache only costs the next catalog request a query.
type storeCache struct {
	rdb *redis.Client
	cfg *config.CacheConfig
}

func NewRedisCache(rdb *redis.Client, cfg *config.CacheConfig) Cache {
	return &storeCache{rdb: rdb, cfg: cfg}
}

// Get reports whether the key was present. A payload that no longer decodes
// is purged so the next lookup misses cleanly instead of failing again.
func (c *storeCache) Get(ctx context.Context, key string, value any) (bool, error) {

	data, err := c.rdb.Get(ctx, key).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {

		// Best effort; the entry expires on its own anyway.
		_ = c.rdb.Del(ctx, key).Err()

		return false, fmt.Errorf("stale cache payload for %s: %w", key, err)
	}

	return true, nil
}

// Set stores the value under key. A non-positive ttl falls back to the
// configured default so callers never pin an entry forever.
func (c *storeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", key, err)
	}

	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}

func (c *storeCache) Delete(ctx context.Context, key string) error {

	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}

	return nil
}

// Close is a no-op: the Redis client is shared with the snapshot and rate
// limit repositories and is shut down by whoever opened it.
func (c *storeCache) Close() error {
	return nil
}
