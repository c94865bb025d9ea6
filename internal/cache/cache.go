package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when the caller passes a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Cache is a time-bounded payload store keyed by query fingerprint.
// Get must treat an expired entry as absent.
type Cache interface {
	Get(ctx context.Context, fp Fingerprint) ([]byte, bool)
	Set(ctx context.Context, fp Fingerprint, payload []byte, ttl time.Duration) error
	Close() error
}

// RedisCache stores payloads in Redis; expiry is enforced by the server.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, fp Fingerprint) ([]byte, bool) {
	data, err := c.client.Get(ctx, string(fp)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, fp Fingerprint, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.client.Set(ctx, string(fp), payload, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// MemoryCache is the in-process backend. Cleanup interval is zero: expired
// entries are evicted on read, never swept in the background.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: gocache.New(DefaultTTL, 0)}
}

func (c *MemoryCache) Get(_ context.Context, fp Fingerprint) ([]byte, bool) {
	v, ok := c.store.Get(string(fp))
	if !ok {
		return nil, false
	}
	payload, ok := v.([]byte)
	return payload, ok
}

func (c *MemoryCache) Set(_ context.Context, fp Fingerprint, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.store.Set(string(fp), payload, ttl)
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

// NoOpCache disables caching.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(context.Context, Fingerprint) ([]byte, bool) {
	return nil, false
}

func (c *NoOpCache) Set(context.Context, Fingerprint, []byte, time.Duration) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
