package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// processingMarker holds a key while the first request is in flight.
var processingMarker = []byte("processing")

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	cache *Cache
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{cache: NewCache(client, "idempotency:")}
}

// CheckAndSet claims key with SETNX. When the key already exists the
// stored value is returned with exists=true.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	value := response
	if value == nil {
		value = processingMarker
	}

	set, err := s.cache.SetNX(ctx, key, value, ttl)
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, _, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, nil, err
	}

	return true, existing, nil
}

// Update replaces the value of key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.cache.Set(ctx, key, response, ttl)
}

// Release deletes key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

// IsProcessing reports whether a stored value is the in-flight marker.
func IsProcessing(value []byte) bool {
	return string(value) == string(processingMarker)
}
