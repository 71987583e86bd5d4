package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store claims idempotency keys so replayed requests are rejected
type Store interface {
	// Claim atomically reserves a key. It returns false when the key has
	// already been claimed within the retention window.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees a key, allowing the request to be retried. Used when the
	// claimed operation fails before any state change commits.
	Release(ctx context.Context, key string) error
}

const keyPrefix = "backoffice:idempotency:"

// RedisStore is the Redis-backed idempotency store
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore with the given retention window
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Claim implements Store using SET NX
func (s *RedisStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

// Release implements Store
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

// NoOpStore accepts every key. Used when Redis is not configured.
type NoOpStore struct{}

// Claim implements Store
func (NoOpStore) Claim(ctx context.Context, key string) (bool, error) { return true, nil }

// Release implements Store
func (NoOpStore) Release(ctx context.Context, key string) error { return nil }

var _ Store = NoOpStore{}
