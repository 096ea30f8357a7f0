package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "catalog:"

// RedisBackend shares cache entries between service instances. Expiry is
// delegated to Redis through PX on write.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client, prefix: defaultRedisPrefix}
}

func (b *RedisBackend) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool, error) {
	raw, err := b.client.Get(ctx, b.key(ns, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w: %w", ErrBackendUnavailable, err)
	}
	return raw, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, ns Namespace, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.key(ns, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w: %w", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) key(ns Namespace, key string) string {
	return b.prefix + string(ns) + "::" + key
}
