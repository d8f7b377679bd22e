package document

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/numbering"
	"github.com/invois/backend/internal/domain/shared"
)

// InvoiceService manages the invoice lifecycle: draft, send, settle, trash
type InvoiceService struct {
	invoices document.InvoiceRepository
	orgs     identity.OrganizationRepository
	counters numbering.CounterRepository
	logger   *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoices document.InvoiceRepository,
	orgs identity.OrganizationRepository,
	counters numbering.CounterRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		orgs:     orgs,
		counters: counters,
		logger:   logger,
	}
}

// Create issues a draft invoice. The document number is drawn inside the
// insert transaction, so it only exists once the row is committed.
func (s *InvoiceService) Create(ctx context.Context, authCtx authz.AuthContext, input CreateInvoiceInput) (*document.Invoice, error) {
	if err := authz.Decide(authz.ActionCreate, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	invoice, err := document.NewInvoice(authCtx.OrganizationID, authCtx.UserID,
		input.Customer.toParty(), input.IssueDate, input.DueDate, input.TaxRate, input.Notes)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(input.Items)
	if err != nil {
		return nil, err
	}
	if err := invoice.SetItems(items); err != nil {
		return nil, err
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to create invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat faktur")
	}

	s.logger.Info("Invoice created",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number))

	return invoice, nil
}

// Get returns an active invoice. Trashed invoices are only visible through
// ListTrash and Restore.
func (s *InvoiceService) Get(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Invoice, error) {
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
	return invoice, nil
}

// List returns the organization's active invoices
func (s *InvoiceService) List(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.Invoice], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.invoices.List(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat daftar faktur")
	}
	return result, nil
}

// ListTrash returns the organization's soft-deleted invoices
func (s *InvoiceService) ListTrash(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.Invoice], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.invoices.ListTrash(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list invoice trash", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat keranjang sampah")
	}
	return result, nil
}

// Update edits the header fields and line items of a non-final invoice
func (s *InvoiceService) Update(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input UpdateInvoiceInput) (*document.Invoice, error) {
	invoice, err := s.loadActive(ctx, authCtx, id, authz.ActionEdit)
	if err != nil {
		return nil, err
	}

	if err := invoice.UpdateDetails(input.Customer.toParty(), input.IssueDate, input.DueDate, input.TaxRate, input.Notes); err != nil {
		return nil, err
	}
	items, err := buildLineItems(input.Items)
	if err != nil {
		return nil, err
	}
	if err := invoice.SetItems(items); err != nil {
		return nil, err
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to update invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan faktur")
	}
	return invoice, nil
}

// MarkSent records delivery of the invoice to the customer
func (s *InvoiceService) MarkSent(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Invoice, error) {
	return s.transition(ctx, authCtx, id, authz.ActionSend, (*document.Invoice).MarkSent)
}

// MarkPaid settles the invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Invoice, error) {
	return s.transition(ctx, authCtx, id, authz.ActionEdit, (*document.Invoice).MarkPaid)
}

// Cancel voids the invoice
func (s *InvoiceService) Cancel(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Invoice, error) {
	return s.transition(ctx, authCtx, id, authz.ActionEdit, (*document.Invoice).Cancel)
}

// Delete moves the invoice to the trash. It stays restorable until the
// retention sweep purges it.
func (s *InvoiceService) Delete(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	invoice, err := s.loadActive(ctx, authCtx, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := invoice.Delete(); err != nil {
		return err
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to trash invoice", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus faktur")
	}

	s.logger.Info("Invoice trashed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("invoice_id", id.String()))
	return nil
}

// Restore brings a trashed invoice back, keeping its number and status
func (s *InvoiceService) Restore(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionRestore, authz.Resource{OrganizationID: invoice.OrganizationID, CreatedBy: invoice.CreatedBy}, authCtx); err != nil {
		return nil, err
	}
	if err := invoice.RestoreFromTrash(); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to restore invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memulihkan faktur")
	}
	return invoice, nil
}

// Purge hard-deletes a trashed invoice immediately. Irreversible; the
// document number is never reused.
func (s *InvoiceService) Purge(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	invoice, err := s.invoices.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionDelete, authz.Resource{OrganizationID: invoice.OrganizationID, CreatedBy: invoice.CreatedBy}, authCtx); err != nil {
		return err
	}
	if !invoice.IsDeleted() {
		return shared.ErrNotDeleted
	}
	if err := s.invoices.Purge(ctx, authCtx.OrganizationID, id); err != nil {
		s.logger.Error("Failed to purge invoice", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus faktur permanen")
	}

	s.logger.Info("Invoice purged",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("invoice_id", id.String()))
	return nil
}

// PreviewNumber returns the number the next invoice would get. Advisory only.
func (s *InvoiceService) PreviewNumber(ctx context.Context, authCtx authz.AuthContext) (*NumberPreview, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	alloc, err := s.counters.PeekNext(ctx, authCtx.OrganizationID, numbering.DocTypeInvoice, numbering.CurrentYear(), org.Prefixes.Invoice)
	if err != nil {
		s.logger.Error("Failed to peek invoice number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat nomor berikutnya")
	}
	return &NumberPreview{Number: alloc.Number, Sequence: alloc.Sequence}, nil
}

func (s *InvoiceService) transition(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, action authz.Action, apply func(*document.Invoice) error) (*document.Invoice, error) {
	invoice, err := s.loadActive(ctx, authCtx, id, action)
	if err != nil {
		return nil, err
	}
	if err := apply(invoice); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to save invoice status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan faktur")
	}

	s.logger.Info("Invoice status changed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("invoice_id", id.String()),
		zap.String("status", invoice.Status.String()))
	return invoice, nil
}

func (s *InvoiceService) loadActive(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, action authz.Action) (*document.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !invoice.IsActive() {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(action, authz.Resource{OrganizationID: invoice.OrganizationID, CreatedBy: invoice.CreatedBy}, authCtx); err != nil {
		return nil, err
	}
	return invoice, nil
}
