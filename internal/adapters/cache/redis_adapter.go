package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	redisclient "github.com/clinicops/leakwatch/internal/infrastructure/clients/redis"
)

// RedisAdapter adapts the Redis client to the CacheProvider interface
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Get retrieves a value from the cache. A missing key returns (nil, nil).
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := a.client.Client().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value in the cache with an expiration in seconds
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return a.client.Client().Set(ctx, key, value, time.Duration(expirationSeconds)*time.Second).Err()
}

// Delete removes a value from the cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Client().Del(ctx, key).Err()
}
