package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/infrastructure/auth"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// Auth validates the Bearer access token and rejects revoked sessions. On
// success it stores the parsed claims and user id in the request context.
func Auth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "TOKEN_INVALID", "Token tidak ditemukan")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			code := "TOKEN_INVALID"
			message := "Token tidak valid"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = "TOKEN_EXPIRED"
				message = "Sesi Anda telah berakhir, silakan login kembali"
			}
			abortUnauthorized(c, code, message)
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// The blacklist is an availability dependency; reject rather than
			// let a possibly revoked token through.
			logger.Error("token blacklist check failed", zap.Error(err))
			abortUnauthorized(c, "TOKEN_ERROR", "Tidak dapat memverifikasi sesi Anda")
			return
		}
		if !revoked {
			// A password change revokes every session issued before it
			revoked, err = blacklist.IsUserRevoked(c.Request.Context(), claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				logger.Error("token blacklist check failed", zap.Error(err))
				abortUnauthorized(c, "TOKEN_ERROR", "Tidak dapat memverifikasi sesi Anda")
				return
			}
		}
		if revoked {
			abortUnauthorized(c, "TOKEN_REVOKED", "Sesi Anda telah dicabut, silakan login kembali")
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, "TOKEN_INVALID", "Token tidak valid")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetClaims returns the access token claims set by Auth
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetUserID returns the authenticated user's id set by Auth
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
