// Package cache provides the Redis-backed query result cache for the web
// app. Keys are built from the canonical form of the boolean query, so
// commuted spellings of the same query share an entry, and concurrent
// identical misses are collapsed with singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/irsearch/platform/internal/search"
	"github.com/irsearch/platform/internal/webapp/query"
	"github.com/irsearch/platform/pkg/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// QueryCache caches materialised query results in Redis.
type QueryCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// Connect opens the Redis connection for the query cache and verifies it
// with a ping.
func Connect(cfg config.RedisConfig) (*QueryCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &QueryCache{
		rdb:    rdb,
		ttl:    cfg.CacheTTL,
		logger: slog.Default().With("component", "query-cache"),
	}, nil
}

// Ping probes the Redis connection; the readiness check uses it.
func (c *QueryCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *QueryCache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached result for a query, counting the lookup as a hit
// or miss. Redis failures degrade to a miss.
func (c *QueryCache) Get(ctx context.Context, q string, limit int) (*query.Result, bool) {
	key := c.buildKey(q, limit)
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
	case err != nil:
		c.logger.Error("cache get failed", "key", key, "error", err)
	default:
		var result query.Result
		if err := json.Unmarshal(data, &result); err != nil {
			c.logger.Error("cache entry undecodable, treating as miss", "key", key, "error", err)
			break
		}
		c.hits.Add(1)
		c.logger.Debug("cache hit", "query", q, "key", key)
		return &result, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores a result under the query's canonical key with the configured
// TTL. Failures are logged, not returned: caching is best effort.
func (c *QueryCache) Set(ctx context.Context, q string, limit int, result *query.Result) {
	key := c.buildKey(q, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it, with
// concurrent misses on the same canonical key collapsed into one
// computation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	q string,
	limit int,
	computeFn func() (*query.Result, error),
) (*query.Result, bool, error) {
	if result, ok := c.Get(ctx, q, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(q, limit)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, q, limit); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, q, limit, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*query.Result), false, nil
}

// Invalidate removes every cached query result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	var deleted int64
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("deleting cache key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning cache keys: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats reports process-local hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the canonical query form so commuted spellings share an
// entry and arbitrary query bytes make safe Redis keys. Queries that
// normalise to empty fall back to their raw string.
func (c *QueryCache) buildKey(q string, limit int) string {
	canonical := search.Normalize(q)
	if canonical == "" {
		canonical = q
	}
	raw := fmt.Sprintf("%s:limit=%d", canonical, limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
