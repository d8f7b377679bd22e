package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window request limit per key (typically the
// client IP, or IP plus route for the stricter auth endpoints).
type RateLimiter interface {
	// Allow records a hit for the key and reports whether it is still within
	// the limit for the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisRateLimiter counts hits in Redis so the limit holds across replicas.
// INCR and EXPIRE run in a pipeline; the window starts at the first hit.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimiter creates a rate limiter on an existing Redis client
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: "ratelimit:",
	}
}

// Allow increments the window counter and compares it against the limit
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := l.keyPrefix + key

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to update rate limit counter: %w", err)
	}

	return count.Val() <= int64(limit), nil
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

// InMemoryRateLimiter keeps window counters in a map. Single-instance only.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// NewInMemoryRateLimiter creates a new in-memory rate limiter
func NewInMemoryRateLimiter() *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		windows: make(map[string]*rateWindow),
	}
}

// Allow records a hit and reports whether the key is within its limit
func (l *InMemoryRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.resetAt) {
		l.windows[key] = &rateWindow{count: 1, resetAt: now.Add(window)}
		return limit >= 1, nil
	}

	w.count++
	return w.count <= limit, nil
}

var _ RateLimiter = (*InMemoryRateLimiter)(nil)
