package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache key not found")
)

// CacheHelper provides read-through caching for repositories. A nil client
// degrades gracefully: reads miss, writes are no-ops.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{client: client, prefix: prefix}
}

// CacheConfig defines TTL per keyspace.
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// Public catalog pages are the hot path.
	CatalogCacheConfig = CacheConfig{TTL: 5 * time.Minute, Prefix: "catalog:"}

	// Profile pages change more often than courses do.
	ProfileCacheConfig = CacheConfig{TTL: 2 * time.Minute, Prefix: "profile:"}
)

func (c *CacheHelper) key(key string) string {
	return c.prefix + key
}

// Get retrieves and unmarshals data from cache.
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

// Set marshals and stores data in cache.
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes keys from cache.
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	cacheKeys := make([]string, len(keys))
	for i, k := range keys {
		cacheKeys[i] = c.key(k)
	}
	return c.client.Del(ctx, cacheKeys...).Err()
}

// InvalidatePattern removes every key matching the glob pattern.
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// CacheOrExecute returns the cached value or executes fn, caching its result.
func (c *CacheHelper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	// Round-trip through JSON so dest is filled the same way on hit and miss.
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	if c.client != nil {
		if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
			return fmt.Errorf("cache set error: %w", err)
		}
	}
	return nil
}
