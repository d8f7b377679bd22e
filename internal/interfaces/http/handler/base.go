// Package handler contains the gin HTTP handlers. Handlers bind and validate
// the transport shape, then delegate to the application services; all business
// rules live below this layer.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/interfaces/http/dto"
	"github.com/invois/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success writes a 200 with the data wrapped in the response envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 with data plus pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Created writes a 201 with the created resource
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 validation error
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeValidation, message, middleware.GetRequestID(c)))
}

// HandleError maps a service error onto the HTTP response. Domain errors keep
// their code and user-facing message; anything else becomes an opaque 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			h.logger.Error("request failed",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.String("code", domainErr.Code),
				zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, middleware.GetRequestID(c)))
		return
	}

	h.logger.Error("unhandled error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Terjadi kesalahan internal", middleware.GetRequestID(c)))
}

// authContext pulls the resolved authorization context; the RequireOrganization
// middleware guarantees it exists on scoped routes
func (h *BaseHandler) authContext(c *gin.Context) (authz.AuthContext, bool) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		c.JSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeNoOrganization,
				"Anda belum tergabung dalam organisasi", middleware.GetRequestID(c)))
	}
	return authCtx, ok
}

// bindID binds the :id path parameter
func (h *BaseHandler) bindID(c *gin.Context) (dto.IDRequest, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "ID tidak valid")
		return req, false
	}
	return req, true
}

// bindList binds the common list query parameters
func (h *BaseHandler) bindList(c *gin.Context) (dto.ListRequest, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Parameter daftar tidak valid")
		return req, false
	}
	return req, true
}
