package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// OrganizationContext resolves the caller's membership from the database on
// every request and builds the authorization context from it. Tokens identify
// the user only, so role changes and removals take effect immediately instead
// of waiting for the access token to expire.
//
// Users without an organization pass through without an auth context; handlers
// that need one sit behind RequireOrganization.
func OrganizationContext(members identity.MemberRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthenticated, "Anda harus login terlebih dahulu", GetRequestID(c)))
			return
		}

		member, err := members.FindByUser(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				logger.Error("membership lookup failed",
					zap.String("user_id", userID.String()),
					zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Terjadi kesalahan internal", GetRequestID(c)))
				return
			}
			c.Next()
			return
		}

		c.Set(ContextKeyAuthContext, authz.NewAuthContext(member))
		// The request logger picks this up when it writes the access line
		c.Set(ContextKeyOrganizationID, member.OrganizationID)
		c.Next()
	}
}

// RequireOrganization aborts requests from users who have not created or
// joined an organization yet
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetAuthContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeNoOrganization,
					"Anda belum tergabung dalam organisasi", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetAuthContext returns the authorization context resolved by
// OrganizationContext
func GetAuthContext(c *gin.Context) (authz.AuthContext, bool) {
	value, ok := c.Get(ContextKeyAuthContext)
	if !ok {
		return authz.AuthContext{}, false
	}
	authCtx, ok := value.(authz.AuthContext)
	return authCtx, ok
}
