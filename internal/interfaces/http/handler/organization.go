package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/invois/backend/internal/application/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/interfaces/http/middleware"
)

// OrganizationHandler serves the organization profile, numbering prefixes,
// SMTP settings and branding assets
type OrganizationHandler struct {
	BaseHandler
	orgs *appidentity.OrganizationService
}

// NewOrganizationHandler creates an organization handler
func NewOrganizationHandler(orgs *appidentity.OrganizationService, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: NewBaseHandler(logger), orgs: orgs}
}

type createOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// Create founds a new organization with the caller as owner. Available to any
// signed-in user who is not yet in an organization.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Nama organisasi wajib diisi")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}

	org, err := h.orgs.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// Get returns the organization profile with resolved branding URLs
func (h *OrganizationHandler) Get(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	result, err := h.orgs.Get(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type updateOrganizationRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"omitempty,max=500"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// Update edits the organization profile
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Profil organisasi tidak valid")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	org, err := h.orgs.Update(c.Request.Context(), authCtx, appidentity.UpdateOrganizationInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

type setPrefixesRequest struct {
	Invoice       string `json:"invoice" binding:"omitempty,max=10"`
	PurchaseOrder string `json:"purchase_order" binding:"omitempty,max=10"`
	Receipt       string `json:"receipt" binding:"omitempty,max=10"`
}

// SetPrefixes overrides the document number prefixes
func (h *OrganizationHandler) SetPrefixes(c *gin.Context) {
	var req setPrefixesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Prefiks nomor dokumen tidak valid")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	org, err := h.orgs.SetPrefixes(c.Request.Context(), authCtx, appidentity.SetPrefixesInput{
		Invoice:       req.Invoice,
		PurchaseOrder: req.PurchaseOrder,
		Receipt:       req.Receipt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

type setSMTPRequest struct {
	Host        string `json:"host" binding:"required,max=255"`
	Port        int    `json:"port" binding:"required,min=1,max=65535"`
	Username    string `json:"username" binding:"omitempty,max=255"`
	Password    string `json:"password" binding:"omitempty,max=255"`
	FromAddress string `json:"from_address" binding:"required,email"`
	FromName    string `json:"from_name" binding:"omitempty,max=100"`
}

// SetSMTP stores the organization's outbound mail relay credentials
func (h *OrganizationHandler) SetSMTP(c *gin.Context) {
	var req setSMTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Pengaturan SMTP tidak lengkap")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.orgs.SetSMTP(c.Request.Context(), authCtx, appidentity.SetSMTPInput{
		Host:        req.Host,
		Port:        req.Port,
		Username:    req.Username,
		Password:    req.Password,
		FromAddress: req.FromAddress,
		FromName:    req.FromName,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type setBrandingRequest struct {
	LogoFileID      string `json:"logo_file_id" binding:"omitempty,max=255"`
	SignatureFileID string `json:"signature_file_id" binding:"omitempty,max=255"`
	StampFileID     string `json:"stamp_file_id" binding:"omitempty,max=255"`
}

// SetBranding stores the storage keys of uploaded branding assets; empty
// values clear the asset
func (h *OrganizationHandler) SetBranding(c *gin.Context) {
	var req setBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Aset branding tidak valid")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.orgs.SetBranding(c.Request.Context(), authCtx, appidentity.SetBrandingInput{
		LogoFileID:      req.LogoFileID,
		SignatureFileID: req.SignatureFileID,
		StampFileID:     req.StampFileID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type uploadURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=logo signature stamp"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// BrandingUploadURL issues a presigned upload slot for a branding asset
func (h *OrganizationHandler) BrandingUploadURL(c *gin.Context) {
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Jenis aset harus logo, signature atau stamp")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	result, err := h.orgs.GenerateUploadURL(c.Request.Context(), authCtx, req.Kind, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterProtectedRoutes mounts creation, which only needs a valid session
func (h *OrganizationHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/organization", h.Create)
}

// RegisterScopedRoutes mounts the endpoints that need an organization
func (h *OrganizationHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.GET("/organization", h.Get)
	rg.PUT("/organization", h.Update)
	rg.PUT("/organization/prefixes", h.SetPrefixes)
	rg.PUT("/organization/smtp", h.SetSMTP)
	rg.PUT("/organization/branding", h.SetBranding)
	rg.POST("/organization/branding/upload-url", h.BrandingUploadURL)
}
