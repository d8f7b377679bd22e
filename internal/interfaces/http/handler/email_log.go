package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appdocument "github.com/invois/backend/internal/application/document"
	"github.com/invois/backend/internal/interfaces/http/dto"
)

// EmailLogHandler serves the organization-wide outbound email log
type EmailLogHandler struct {
	BaseHandler
	email *appdocument.EmailService
}

// NewEmailLogHandler creates an email log handler
func NewEmailLogHandler(email *appdocument.EmailService, logger *zap.Logger) *EmailLogHandler {
	return &EmailLogHandler{BaseHandler: NewBaseHandler(logger), email: email}
}

// List returns a page of sent and failed document emails
func (h *EmailLogHandler) List(c *gin.Context) {
	listReq, ok := h.bindList(c)
	if !ok {
		return
	}
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	page, err := h.email.List(c.Request.Context(), authCtx, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, dto.PageMeta(page))
}

// RegisterScopedRoutes mounts the email log endpoint
func (h *EmailLogHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.GET("/emails", h.List)
}
