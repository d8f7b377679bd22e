package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdempotencyStore deduplicates document mutations. Clients retrying a create
// send the same Idempotency-Key header; only the first attempt within the TTL
// goes through.
type IdempotencyStore interface {
	// Claim atomically claims a key. Returns true if this is the first
	// attempt, false if the key was already claimed within the TTL.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsClaimed reports whether a key has been claimed and not yet expired
	IsClaimed(ctx context.Context, key string) (bool, error)

	// Close releases store resources
	Close() error
}

// IdempotencyKey scopes a client-supplied key to the organization and user so
// keys cannot collide or be replayed across tenants.
func IdempotencyKey(organizationID, userID uuid.UUID, clientKey string) string {
	return organizationID.String() + ":" + userID.String() + ":" + clientKey
}

// RedisIdempotencyStore shares claim state across instances. Suitable for
// multi-replica deployments.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing Redis client
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: "request:idempotency:",
	}
}

// Claim uses SETNX so concurrent retries race on a single atomic operation
func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return claimed, nil
}

// IsClaimed reports whether the key exists
func (s *RedisIdempotencyStore) IsClaimed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return exists > 0, nil
}

// Close is a no-op; the shared Redis client is closed by its owner
func (s *RedisIdempotencyStore) Close() error {
	return nil
}

var _ IdempotencyStore = (*RedisIdempotencyStore)(nil)
