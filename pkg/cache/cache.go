// Package cache provides a small JSON cache with redis, memory and no-op
// drivers, selected by CACHE_DRIVER.
//
//	c, err := cache.New(config.CacheDriver())
//	var stats StoreStats
//	if c.Get(ctx, "stats:1:5", &stats) { ... }
//	_ = c.Set(ctx, "stats:1:5", stats, config.CacheTTL())
//	_ = c.DeletePrefix(ctx, "stats:1:")
//
// Lookups never fail: any driver error counts as a miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/inventory/config"
)

// Store is implemented by every driver.
type Store interface {
	// Get unmarshals the value under key into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) bool
	// Set stores value as JSON under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes keys.
	Del(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Driver names the backend for metrics labels.
	Driver() string
}

// New builds the store for driver: "none", "memory" or "redis".
// The redis driver pings the server and returns an error when it is unreachable.
func New(driver string) (Store, error) {
	switch driver {
	case "", "none":
		return Noop{}, nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
			DB:       0,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("cache: redis ping: %w", err)
		}
		return NewRedis(rdb), nil
	default:
		return nil, fmt.Errorf("cache: unsupported CACHE_DRIVER %q (supported: none, memory, redis)", driver)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) bool { return false }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Del(context.Context, ...string) error { return nil }

func (Noop) DeletePrefix(context.Context, string) error { return nil }

func (Noop) Driver() string { return "none" }
