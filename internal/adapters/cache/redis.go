package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

const defaultPrefix = "huddle:cache:"

// Redis is a cache shared between service instances. Entries expire through
// Redis TTLs; Redis errors degrade to misses.
type Redis struct {
	name   string
	client *redis.Client
	opts   options
	logger logger.Logger
}

// NewRedis creates a Redis backed cache. name labels its metrics and is
// part of every key.
func NewRedis(client *redis.Client, name string, opts ...Option) *Redis {
	o := options{ttl: defaultTTL, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis{
		name:   name,
		client: client,
		opts:   o,
		logger: logger.Get().Named("cache.redis"),
	}
}

func (r *Redis) key(k string) string {
	return r.opts.prefix + r.name + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn(ctx, "cache get failed", logger.String("key", key), logger.Error(err))
			metrics.RecordErrorByComponent("cache", "redis_get")
		}
		metrics.RecordCacheMiss(r.name)
		return nil, false
	}
	metrics.RecordCacheHit(r.name)
	return v, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, r.key(key), value, r.opts.ttl).Err(); err != nil {
		r.logger.Warn(ctx, "cache set failed", logger.String("key", key), logger.Error(err))
		metrics.RecordErrorByComponent("cache", "redis_set")
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Warn(ctx, "cache delete failed", logger.String("key", key), logger.Error(err))
	}
}

// Len counts this cache's keys with SCAN. It is meant for stats, not hot
// paths.
func (r *Redis) Len(ctx context.Context) int {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.opts.prefix+r.name+":*", 100).Result()
		if err != nil {
			return count
		}
		count += len(keys)
		if next == 0 {
			return count
		}
		cursor = next
	}
}
