package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort read-through cache for immutable reference
// data. All methods are safe on a nil *Cache, so callers never have to
// care whether Redis is configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr. An empty addr or a failed ping returns
// nil: caching is simply disabled.
func New(addr string, ttl time.Duration) *Cache {
	if addr == "" {
		slog.Warn("REDIS_ADDR not set, catalog caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("redis unreachable, catalog caching disabled", "error", err)
		return nil
	}

	slog.Info("redis connected", "addr", addr)
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetJSON reports whether key was found and unmarshalled into dst.
// Errors count as misses.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SetJSON stores v under key with the configured TTL. Failures are
// logged and swallowed; the source of truth is Postgres.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Debug("cache set failed", "key", key, "error", err)
	}
}
