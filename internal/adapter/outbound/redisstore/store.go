// Package redisstore adapts Redis to the key/value store port the
// gallery collection is persisted to.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/imagestudio/server/internal/port/outbound"
)

// Store is a Redis-backed key/value store.
type Store struct {
	client redis.UniversalClient
}

var _ outbound.KeyValueStorePort = (*Store)(nil)

// New creates a new Store.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get returns the value stored under key. found is false when the key
// does not exist.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key with no expiry, overwriting any prior
// value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
