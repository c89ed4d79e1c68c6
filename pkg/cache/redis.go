package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration

	// Fallback handles reads and writes while Redis is unreachable. A nil
	// fallback gets a default memory cache.
	Fallback *MemoryCache
}

// RedisCache stores entries in Redis with the local memory cache as a
// degraded-mode fallback. Redis failures are logged and absorbed so cache
// trouble never surfaces as a request error.
type RedisCache struct {
	client   *redis.Client
	fallback *MemoryCache
	ttl      time.Duration
	logger   *slog.Logger
}

// NewRedisCache creates a Redis-backed cache. The connection is verified
// lazily: a Redis that is down at startup just routes traffic to the
// fallback until it recovers.
func NewRedisCache(opts RedisOptions) *RedisCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewMemoryCache(DefaultCapacity, opts.TTL)
	}

	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		fallback: fallback,
		ttl:      opts.TTL,
		logger:   slog.Default().With("component", "cache", "backend", "redis"),
	}
}

// Get reads from Redis, falling back to the memory store on error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return value, true
	}
	if errors.Is(err, redis.Nil) {
		return nil, false
	}

	c.logger.Warn("redis get failed, using fallback", "error", err)
	return c.fallback.Get(ctx, key)
}

// Set writes to Redis with the configured TTL, mirroring into the fallback
// on error.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed, using fallback", "error", err)
		c.fallback.Set(ctx, key, value)
	}
}

// Delete removes key from both Redis and the fallback.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("redis delete failed", "error", err)
	}
	c.fallback.Delete(ctx, key)
}

// Stats reports Redis key count where available, fallback counters otherwise.
func (c *RedisCache) Stats() Stats {
	stats := c.fallback.Stats()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if size, err := c.client.DBSize(ctx).Result(); err == nil {
		stats.Entries = int(size)
		stats.Capacity = 0
	}
	return stats
}

// Sweep sweeps the fallback store. Redis expires its own keys.
func (c *RedisCache) Sweep(ctx context.Context) int {
	return c.fallback.Sweep(ctx)
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
