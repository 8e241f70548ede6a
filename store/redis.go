package store

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/slugai"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed option store.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "slugai:")
}

// NewRedisStore creates a new Redis store with the given configuration.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "slugai:"
	}

	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value from Redis.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &slugai.StoreError{Op: "get", Key: key, Cause: err}
	}
	return val, nil
}

// Set stores a value in Redis without expiration.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, 0).Err(); err != nil {
		return &slugai.StoreError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Delete removes a value from Redis.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return &slugai.StoreError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Incr atomically increments a counter stored in Redis.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return 0, &slugai.StoreError{Op: "incr", Key: key, Cause: err}
	}
	return n, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Verify RedisStore implements KeyValueStore
var _ KeyValueStore = (*RedisStore)(nil)
