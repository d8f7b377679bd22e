package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/infrastructure/cache"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the client-supplied retry deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency deduplicates mutating requests that carry an Idempotency-Key
// header. A retried create lands on an already-claimed key and gets a 409
// instead of drawing a second document number. Requests without the header
// pass through untouched.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.GetHeader(IdempotencyKeyHeader)
		if clientKey == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		authCtx, ok := GetAuthContext(c)
		if !ok {
			c.Next()
			return
		}

		// Keys are tenant-and-user scoped so they cannot be replayed across
		// organizations.
		key := cache.IdempotencyKey(authCtx.OrganizationID, authCtx.UserID, clientKey)
		claimed, err := store.Claim(c.Request.Context(), key, ttl)
		if err != nil {
			logger.Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeDuplicateRequest,
					"Permintaan dengan kunci idempotensi ini sudah diproses", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
