// Package cache provides a fail-safe Redis key/value cache with lifecycle coordination.
// Connectivity errors are logged and treated as cache misses.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/gallery/pkg/lifecycle"
)

// System is a byte-oriented cache that never fails its callers.
type System interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value for the configured TTL.
	Set(ctx context.Context, key string, value []byte)
	// Delete removes key.
	Delete(ctx context.Context, key string)
	// Generation returns the invalidation generation of key. ok is false
	// when the cache cannot be reached.
	Generation(ctx context.Context, key string) (gen int64, ok bool)
	// Invalidate removes key and advances its generation, so fills that
	// read an older generation are dropped.
	Invalidate(ctx context.Context, key string)
	// SetAt stores value only while gen is still the generation of key.
	SetAt(ctx context.Context, key string, value []byte, gen int64)
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// setAtScript writes KEYS[1] only when the generation in KEYS[2] equals ARGV[2].
var setAtScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// New creates a cache system backed by the Redis server in cfg.
// No connection is made until the first command or Start.
func New(cfg *Config, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisCache{
		client: client,
		ttl:    cfg.TTLDuration(),
		prefix: cfg.Prefix,
		logger: logger.With("system", "cache"),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache get failed", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

func (c *redisCache) generationKey(key string) string {
	return c.prefix + key + ":gen"
}

func (c *redisCache) Generation(ctx context.Context, key string) (int64, bool) {
	gen, err := c.client.Get(ctx, c.generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("cache generation read failed", "key", key, "error", err)
		return 0, false
	}
	return gen, true
}

func (c *redisCache) Invalidate(ctx context.Context, key string) {
	genKey := c.generationKey(key)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		if c.ttl > 0 {
			pipe.PExpire(ctx, genKey, 2*c.ttl)
		}
		pipe.Del(ctx, c.prefix+key)
		return nil
	})
	if err != nil {
		c.logger.Warn("cache invalidate failed", "key", key, "error", err)
	}
}

func (c *redisCache) SetAt(ctx context.Context, key string, value []byte, gen int64) {
	err := setAtScript.Run(
		ctx,
		c.client,
		[]string{c.prefix + key, c.generationKey(key)},
		value,
		strconv.FormatInt(gen, 10),
		c.ttl.Milliseconds(),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	lc.OnStartup(func() {
		if err := c.client.Ping(lc.Context()).Err(); err != nil {
			c.logger.Warn("cache ping failed, continuing without cache", "error", err)
			return
		}
		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.logger.Info("closing cache connection")

		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}

		c.logger.Info("cache connection closed")
	})

	return nil
}
