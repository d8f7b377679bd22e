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

// PurchaseOrderService manages purchase orders issued to vendors. The
// lifecycle mirrors invoices; only the counterparty and number prefix differ.
type PurchaseOrderService struct {
	orders   document.PurchaseOrderRepository
	orgs     identity.OrganizationRepository
	counters numbering.CounterRepository
	logger   *zap.Logger
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	orders document.PurchaseOrderRepository,
	orgs identity.OrganizationRepository,
	counters numbering.CounterRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orders:   orders,
		orgs:     orgs,
		counters: counters,
		logger:   logger,
	}
}

// Create issues a draft purchase order with a freshly drawn number
func (s *PurchaseOrderService) Create(ctx context.Context, authCtx authz.AuthContext, input CreatePurchaseOrderInput) (*document.PurchaseOrder, error) {
	if err := authz.Decide(authz.ActionCreate, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	po, err := document.NewPurchaseOrder(authCtx.OrganizationID, authCtx.UserID,
		input.Vendor.toParty(), input.IssueDate, input.DueDate, input.TaxRate, input.Notes)
	if err != nil {
		return nil, err
	}
	items, err := buildLineItems(input.Items)
	if err != nil {
		return nil, err
	}
	if err := po.SetItems(items); err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, po); err != nil {
		s.logger.Error("Failed to create purchase order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat pesanan pembelian")
	}

	s.logger.Info("Purchase order created",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("number", po.Number))

	return po, nil
}

// Get returns an active purchase order
func (s *PurchaseOrderService) Get(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.PurchaseOrder, error) {
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
	return po, nil
}

// List returns the organization's active purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.PurchaseOrder], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.orders.List(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list purchase orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat daftar pesanan")
	}
	return result, nil
}

// ListTrash returns the organization's soft-deleted purchase orders
func (s *PurchaseOrderService) ListTrash(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[document.PurchaseOrder], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.orders.ListTrash(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list purchase order trash", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat keranjang sampah")
	}
	return result, nil
}

// Update edits the header fields and line items of a non-final order
func (s *PurchaseOrderService) Update(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input UpdatePurchaseOrderInput) (*document.PurchaseOrder, error) {
	po, err := s.loadActive(ctx, authCtx, id, authz.ActionEdit)
	if err != nil {
		return nil, err
	}

	if err := po.UpdateDetails(input.Vendor.toParty(), input.IssueDate, input.DueDate, input.TaxRate, input.Notes); err != nil {
		return nil, err
	}
	items, err := buildLineItems(input.Items)
	if err != nil {
		return nil, err
	}
	if err := po.SetItems(items); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, po); err != nil {
		s.logger.Error("Failed to update purchase order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pesanan")
	}
	return po, nil
}

// MarkSent records delivery of the order to the vendor
func (s *PurchaseOrderService) MarkSent(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.PurchaseOrder, error) {
	return s.transition(ctx, authCtx, id, authz.ActionSend, (*document.PurchaseOrder).MarkSent)
}

// MarkPaid settles the order
func (s *PurchaseOrderService) MarkPaid(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.PurchaseOrder, error) {
	return s.transition(ctx, authCtx, id, authz.ActionEdit, (*document.PurchaseOrder).MarkPaid)
}

// Cancel voids the order
func (s *PurchaseOrderService) Cancel(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.PurchaseOrder, error) {
	return s.transition(ctx, authCtx, id, authz.ActionEdit, (*document.PurchaseOrder).Cancel)
}

// Delete moves the order to the trash
func (s *PurchaseOrderService) Delete(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	po, err := s.loadActive(ctx, authCtx, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := po.Delete(); err != nil {
		return err
	}
	if err := s.orders.Update(ctx, po); err != nil {
		s.logger.Error("Failed to trash purchase order", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus pesanan")
	}

	s.logger.Info("Purchase order trashed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("purchase_order_id", id.String()))
	return nil
}

// Restore brings a trashed order back
func (s *PurchaseOrderService) Restore(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*document.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionRestore, authz.Resource{OrganizationID: po.OrganizationID, CreatedBy: po.CreatedBy}, authCtx); err != nil {
		return nil, err
	}
	if err := po.RestoreFromTrash(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, po); err != nil {
		s.logger.Error("Failed to restore purchase order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memulihkan pesanan")
	}
	return po, nil
}

// Purge hard-deletes a trashed order immediately
func (s *PurchaseOrderService) Purge(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	po, err := s.orders.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionDelete, authz.Resource{OrganizationID: po.OrganizationID, CreatedBy: po.CreatedBy}, authCtx); err != nil {
		return err
	}
	if !po.IsDeleted() {
		return shared.ErrNotDeleted
	}
	if err := s.orders.Purge(ctx, authCtx.OrganizationID, id); err != nil {
		s.logger.Error("Failed to purge purchase order", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus pesanan permanen")
	}
	return nil
}

// PreviewNumber returns the number the next purchase order would get
func (s *PurchaseOrderService) PreviewNumber(ctx context.Context, authCtx authz.AuthContext) (*NumberPreview, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	alloc, err := s.counters.PeekNext(ctx, authCtx.OrganizationID, numbering.DocTypePurchaseOrder, numbering.CurrentYear(), org.Prefixes.PurchaseOrder)
	if err != nil {
		s.logger.Error("Failed to peek purchase order number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat nomor berikutnya")
	}
	return &NumberPreview{Number: alloc.Number, Sequence: alloc.Sequence}, nil
}

func (s *PurchaseOrderService) transition(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, action authz.Action, apply func(*document.PurchaseOrder) error) (*document.PurchaseOrder, error) {
	po, err := s.loadActive(ctx, authCtx, id, action)
	if err != nil {
		return nil, err
	}
	if err := apply(po); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, po); err != nil {
		s.logger.Error("Failed to save purchase order status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pesanan")
	}

	s.logger.Info("Purchase order status changed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("purchase_order_id", id.String()),
		zap.String("status", po.Status.String()))
	return po, nil
}

func (s *PurchaseOrderService) loadActive(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, action authz.Action) (*document.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !po.IsActive() {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(action, authz.Resource{OrganizationID: po.OrganizationID, CreatedBy: po.CreatedBy}, authCtx); err != nil {
		return nil, err
	}
	return po, nil
}
