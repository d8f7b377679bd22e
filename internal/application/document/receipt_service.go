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

// ReceiptService manages payment receipts (kwitansi). Receipts have no status
// machine; they only move between active and trashed.
type ReceiptService struct {
	receipts document.ReceiptRepository
	orgs     identity.OrganizationRepository
	counters numbering.CounterRepository
	logger   *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receipts document.ReceiptRepository,
	orgs identity.OrganizationRepository,
	counters numbering.CounterRepository,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		receipts: receipts,
		orgs:     orgs,
		counters: counters,
		logger:   logger,
	}
}

// Create issues a receipt. When the caller does not spell out the amount, the
// Indonesian spelling is generated from the numeric amount.
func (s *ReceiptService) Create(ctx context.Context, authCtx authz.AuthContext, input CreateReceiptInput) (*document.Receipt, error) {
	if err := authz.Decide(authz.ActionCreate, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	receipt, err := document.NewReceipt(authCtx.OrganizationID, authCtx.UserID,
		input.Payer.toParty(), input.PaymentDate, input.PaymentMethod, input.Amount, input.Description, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	words := input.AmountInWords
	if words == "" {
		words = document.AmountInWords(input.Amount)
	}
	receipt.SetAmountInWords(words)

	if err := s.receipts.Create(ctx, receipt); err != nil {
		s.logger.Error("Failed to create receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat kwitansi")
	}

	s.logger.Info("Receipt created",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("number", receipt.Number))

	return receipt, nil
}

// Get returns an active receipt
func (s *ReceiptService) Get(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Receipt, error) {
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
	return receipt, nil
}

// List returns the organization's active receipts
func (s *ReceiptService) List(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.Receipt], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.receipts.List(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list receipts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat daftar kwitansi")
	}
	return result, nil
}

// ListTrash returns the organization's soft-deleted receipts
func (s *ReceiptService) ListTrash(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.Receipt], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.receipts.ListTrash(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list receipt trash", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat keranjang sampah")
	}
	return result, nil
}

// Update edits the receipt, regenerating the spelled-out amount when the
// caller does not provide one
func (s *ReceiptService) Update(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input UpdateReceiptInput) (*document.Receipt, error) {
	receipt, err := s.loadActive(ctx, authCtx, id, authz.ActionEdit)
	if err != nil {
		return nil, err
	}

	if err := receipt.Update(input.Payer.toParty(), input.PaymentDate, input.PaymentMethod, input.Amount, input.Description); err != nil {
		return nil, err
	}
	words := input.AmountInWords
	if words == "" {
		words = document.AmountInWords(input.Amount)
	}
	receipt.SetAmountInWords(words)

	if err := s.receipts.Update(ctx, receipt); err != nil {
		s.logger.Error("Failed to update receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan kwitansi")
	}
	return receipt, nil
}

// Delete moves the receipt to the trash
func (s *ReceiptService) Delete(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	receipt, err := s.loadActive(ctx, authCtx, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := receipt.Delete(); err != nil {
		return err
	}
	if err := s.receipts.Update(ctx, receipt); err != nil {
		s.logger.Error("Failed to trash receipt", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus kwitansi")
	}

	s.logger.Info("Receipt trashed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("receipt_id", id.String()))
	return nil
}

// Restore brings a trashed receipt back
func (s *ReceiptService) Restore(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.Receipt, error) {
	receipt, err := s.receipts.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionRestore, authz.Resource{OrganizationID: receipt.OrganizationID, CreatedBy: receipt.CreatedBy}, authCtx); err != nil {
		return nil, err
	}
	if err := receipt.RestoreFromTrash(); err != nil {
		return nil, err
	}
	if err := s.receipts.Update(ctx, receipt); err != nil {
		s.logger.Error("Failed to restore receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memulihkan kwitansi")
	}
	return receipt, nil
}

// Purge hard-deletes a trashed receipt immediately
func (s *ReceiptService) Purge(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	receipt, err := s.receipts.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionDelete, authz.Resource{OrganizationID: receipt.OrganizationID, CreatedBy: receipt.CreatedBy}, authCtx); err != nil {
		return err
	}
	if !receipt.IsDeleted() {
		return shared.ErrNotDeleted
	}
	if err := s.receipts.Purge(ctx, authCtx.OrganizationID, id); err != nil {
		s.logger.Error("Failed to purge receipt", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus kwitansi permanen")
	}
	return nil
}

// PreviewNumber returns the number the next receipt would get
func (s *ReceiptService) PreviewNumber(ctx context.Context, authCtx authz.AuthContext) (*NumberPreview, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	alloc, err := s.counters.PeekNext(ctx, authCtx.OrganizationID, numbering.DocTypeReceipt, numbering.CurrentYear(), org.Prefixes.Receipt)
	if err != nil {
		s.logger.Error("Failed to peek receipt number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat nomor berikutnya")
	}
	return &NumberPreview{Number: alloc.Number, Sequence: alloc.Sequence}, nil
}

func (s *ReceiptService) loadActive(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, action authz.Action) (*document.Receipt, error) {
	receipt, err := s.receipts.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !receipt.IsActive() {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(action, authz.Resource{OrganizationID: receipt.OrganizationID, CreatedBy: receipt.CreatedBy}, authCtx); err != nil {
		return nil, err
	}
	return receipt, nil
}
