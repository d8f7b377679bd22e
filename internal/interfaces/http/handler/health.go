package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/invois/backend/internal/interfaces/http/dto"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db      *gorm.DB
	version string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(db *gorm.DB, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{BaseHandler: NewBaseHandler(logger), db: db, version: version}
}

// Live reports that the process is up
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status":  "ok",
		"version": h.version,
	}))
}

// Ready reports whether the service can reach its database
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Warn("readiness probe failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("NOT_READY", "Database tidak dapat dihubungi"))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ready"}))
}

// RegisterPublicRoutes mounts the probe endpoints
func (h *HealthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Live)
	rg.GET("/health/ready", h.Ready)
}
