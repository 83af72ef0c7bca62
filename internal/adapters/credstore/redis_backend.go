package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pbflix/neteflix-api/internal/ports"
)

// RedisBackend is the durable credential tier. Keys carry no TTL; they
// survive process restarts until explicitly cleared.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.CredentialBackend = (*RedisBackend)(nil)

// NewRedisBackend creates a Redis-backed credential tier with the default
// key prefix.
func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client, prefix: "cred:"}
}

// NewRedisBackendWithPrefix creates a Redis-backed tier with a custom prefix.
func NewRedisBackendWithPrefix(client redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("key cannot be empty")
	}

	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return r.client.Del(ctx, r.prefix+key).Err()
}
