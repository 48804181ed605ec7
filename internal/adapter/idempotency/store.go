package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces payment webhook deliveries in Redis.
const KeyPrefix = "payment:webhook:"

// Store remembers delivery keys for a limited time.
type Store interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, key string) error
}

// RedisStore keeps delivery keys in Redis using SETNX.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Claim sets the key unless present. It returns false for a repeated delivery.
func (s *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, KeyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return ok, nil
}

// Forget removes the key so the delivery can be processed again.
func (s *RedisStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("forget %s: %w", key, err)
	}
	return nil
}

// NoopStore accepts every delivery. Used when Redis is not configured.
type NoopStore struct{}

func (NoopStore) Claim(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (NoopStore) Forget(context.Context, string) error { return nil }
