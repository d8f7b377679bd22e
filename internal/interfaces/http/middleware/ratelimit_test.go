package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/infrastructure/cache"
)

func rateLimitedRouter(limiter cache.RateLimiter, limit int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RateLimit(RateLimitConfig{
		Limiter: limiter,
		Limit:   limit,
		Window:  time.Minute,
		Logger:  zap.NewNop(),
	}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	router := rateLimitedRouter(cache.NewInMemoryRateLimiter(), 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	router := rateLimitedRouter(cache.NewInMemoryRateLimiter(), 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

type failingRateLimiter struct{}

func (failingRateLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("redis unavailable")
}

func TestRateLimit_FailsOpenWhenBackendDown(t *testing.T) {
	router := rateLimitedRouter(failingRateLimiter{}, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func idempotentRouter(store cache.IdempotencyStore, authCtx *authz.AuthContext) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		if authCtx != nil {
			c.Set(ContextKeyAuthContext, *authCtx)
		}
	}, Idempotency(store, time.Hour, zap.NewNop()))
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return router
}

func TestIdempotency_SecondAttemptConflicts(t *testing.T) {
	authCtx := &authz.AuthContext{UserID: uuid.New(), OrganizationID: uuid.New(), Role: identity.RoleMember}
	router := idempotentRouter(cache.NewInMemoryIdempotencyStore(), authCtx)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(IdempotencyKeyHeader, "retry-abc")
	router.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	retry := httptest.NewRequest(http.MethodPost, "/", nil)
	retry.Header.Set(IdempotencyKeyHeader, "retry-abc")
	router.ServeHTTP(second, retry)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "DUPLICATE_REQUEST")
}

func TestIdempotency_DistinctKeysPass(t *testing.T) {
	authCtx := &authz.AuthContext{UserID: uuid.New(), OrganizationID: uuid.New(), Role: identity.RoleMember}
	router := idempotentRouter(cache.NewInMemoryIdempotencyStore(), authCtx)

	for _, key := range []string{"key-1", "key-2"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(IdempotencyKeyHeader, key)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	authCtx := &authz.AuthContext{UserID: uuid.New(), OrganizationID: uuid.New(), Role: identity.RoleMember}
	router := idempotentRouter(cache.NewInMemoryIdempotencyStore(), authCtx)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
