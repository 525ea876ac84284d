package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tagSetPrefix namespaces the per-tag key sets in Redis.
const tagSetPrefix = "cache-tag:"

// Redis is a tagged cache shared between instances, backed by go-redis.
// Tag membership is tracked in Redis sets so invalidation reaches entries
// written by any instance.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache from an address like "localhost:6379".
func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewRedisWithClient wraps an existing client (used by tests).
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Ping checks connectivity, for health checks.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagSetPrefix+tag, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// InvalidateTags implements Cache.
func (r *Redis) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := r.client.SMembers(ctx, tagSetPrefix+tag).Result()
		if err != nil {
			return fmt.Errorf("redis invalidate tag %q: %w", tag, err)
		}
		keys = append(keys, tagSetPrefix+tag)
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis invalidate tag %q: %w", tag, err)
		}
	}
	return nil
}
