package document

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/infrastructure/printing"
	"github.com/invois/backend/internal/infrastructure/storage"
)

// RenderService turns documents into branded PDFs. Branding images are pulled
// from object storage and inlined as data URLs so the rendered page has no
// external fetches.
type RenderService struct {
	invoices  document.InvoiceRepository
	orders    document.PurchaseOrderRepository
	receipts  document.ReceiptRepository
	orgs      identity.OrganizationRepository
	storage   storage.ObjectStorage
	templates *printing.DocumentTemplates
	renderer  printing.PDFRenderer
	logger    *zap.Logger
}

// NewRenderService creates a new render service
func NewRenderService(
	invoices document.InvoiceRepository,
	orders document.PurchaseOrderRepository,
	receipts document.ReceiptRepository,
	orgs identity.OrganizationRepository,
	objectStorage storage.ObjectStorage,
	templates *printing.DocumentTemplates,
	renderer printing.PDFRenderer,
	logger *zap.Logger,
) *RenderService {
	return &RenderService{
		invoices:  invoices,
		orders:    orders,
		receipts:  receipts,
		orgs:      orgs,
		storage:   objectStorage,
		templates: templates,
		renderer:  renderer,
		logger:    logger,
	}
}

// RenderInvoice produces the invoice PDF
func (s *RenderService) RenderInvoice(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	invoice, err := s.invoices.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !invoice.IsActive() {
		return nil, shared.ErrNotFound
	}

	org, branding, err := s.loadBranding(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, err
	}
	html, err := s.templates.InvoiceHTML(org, branding, invoice)
	if err != nil {
		s.logger.Error("Failed to build invoice HTML", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyusun dokumen")
	}
	return s.renderPDF(ctx, html, invoice.Number)
}

// RenderPurchaseOrder produces the purchase order PDF
func (s *RenderService) RenderPurchaseOrder(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	po, err := s.orders.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !po.IsActive() {
		return nil, shared.ErrNotFound
	}

	org, branding, err := s.loadBranding(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, err
	}
	html, err := s.templates.PurchaseOrderHTML(org, branding, po)
	if err != nil {
		s.logger.Error("Failed to build purchase order HTML", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyusun dokumen")
	}
	return s.renderPDF(ctx, html, po.Number)
}

// RenderReceipt produces the receipt PDF
func (s *RenderService) RenderReceipt(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	receipt, err := s.receipts.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !receipt.IsActive() {
		return nil, shared.ErrNotFound
	}

	org, branding, err := s.loadBranding(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, err
	}
	html, err := s.templates.ReceiptHTML(org, branding, receipt)
	if err != nil {
		s.logger.Error("Failed to build receipt HTML", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyusun dokumen")
	}
	return s.renderPDF(ctx, html, receipt.Number)
}

func (s *RenderService) renderPDF(ctx context.Context, html, number string) (*RenderedDocument, error) {
	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:  html,
		Title: number,
	})
	if err != nil {
		s.logger.Error("PDF rendering failed", zap.String("number", number), zap.Error(err))
		return nil, shared.ErrExternalService
	}

	return &RenderedDocument{
		FileName:       number + ".pdf",
		PDF:            result.PDFData,
		RenderDuration: result.RenderDuration,
	}, nil
}

func (s *RenderService) loadBranding(ctx context.Context, organizationID uuid.UUID) (*identity.Organization, printing.Branding, error) {
	org, err := s.orgs.FindByID(ctx, organizationID)
	if err != nil {
		return nil, printing.Branding{}, shared.ErrNotFound
	}

	branding := printing.Branding{
		LogoDataURL:      s.assetDataURL(ctx, org.LogoFileID),
		SignatureDataURL: s.assetDataURL(ctx, org.SignatureFileID),
		StampDataURL:     s.assetDataURL(ctx, org.StampFileID),
	}
	return org, branding, nil
}

// assetDataURL downloads a branding image and inlines it as a data URL.
// Missing or unreadable assets degrade to an unbranded document.
func (s *RenderService) assetDataURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to download branding asset", zap.String("key", key), zap.Error(err))
		return ""
	}
	contentType := http.DetectContentType(data)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
