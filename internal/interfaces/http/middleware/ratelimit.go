package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/infrastructure/cache"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// RateLimitConfig controls the RateLimit middleware
type RateLimitConfig struct {
	Limiter cache.RateLimiter
	Limit   int
	Window  time.Duration
	// KeySuffix separates limiter buckets, e.g. ":auth" for the stricter
	// login/registration limits
	KeySuffix string
	Logger    *zap.Logger
}

// RateLimit enforces a per-client request limit keyed by client IP. A limiter
// backend failure fails open: dropping traffic because Redis restarted is
// worse than briefly not throttling.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + config.KeySuffix

		allowed, err := config.Limiter.Allow(c.Request.Context(), key, config.Limit, config.Window)
		if err != nil {
			config.Logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			seconds := int(config.Window.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited,
					"Terlalu banyak permintaan, coba lagi nanti", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
