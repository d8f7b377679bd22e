package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appdocument "github.com/invois/backend/internal/application/document"
)

// SweepHandler triggers an on-demand overdue sweep for the caller's
// organization. The scheduler runs the same sweep daily for all tenants.
type SweepHandler struct {
	BaseHandler
	sweep *appdocument.SweepService
}

// NewSweepHandler creates a sweep handler
func NewSweepHandler(sweep *appdocument.SweepService, logger *zap.Logger) *SweepHandler {
	return &SweepHandler{BaseHandler: NewBaseHandler(logger), sweep: sweep}
}

// SweepOverdue flags every sent document past its due date as overdue
func (h *SweepHandler) SweepOverdue(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	result, err := h.sweep.SweepOrganization(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterScopedRoutes mounts the sweep endpoint
func (h *SweepHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/sweep-overdue", h.SweepOverdue)
}
