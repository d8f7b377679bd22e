package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter_EnforcesLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestInMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewInMemoryRateLimiter()
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "5.6.7.8", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestInMemoryRateLimiter_WindowResets(t *testing.T) {
	limiter := NewInMemoryRateLimiter()
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "1.2.3.4", 1, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)

	time.Sleep(5 * time.Millisecond)

	allowed, err = limiter.Allow(ctx, "1.2.3.4", 1, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
}
