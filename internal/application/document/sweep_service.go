package document

import (
	"context"

	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/shared"
)

// SweepService runs the on-demand overdue sweep for one organization. The
// nightly scheduler does the same across all tenants; this endpoint lets a
// tenant refresh its own statuses immediately.
type SweepService struct {
	invoices document.InvoiceRepository
	orders   document.PurchaseOrderRepository
	logger   *zap.Logger
}

// NewSweepService creates a new sweep service
func NewSweepService(
	invoices document.InvoiceRepository,
	orders document.PurchaseOrderRepository,
	logger *zap.Logger,
) *SweepService {
	return &SweepService{
		invoices: invoices,
		orders:   orders,
		logger:   logger,
	}
}

// SweepOrganization transitions the caller's past-due draft and sent
// documents to overdue. Any member may trigger it; the sweep applies a status
// the documents already qualify for.
func (s *SweepService) SweepOrganization(ctx context.Context, authCtx authz.AuthContext) (*SweepResult, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	today := document.Today()
	orgID := authCtx.OrganizationID

	invoicesMarked, err := s.invoices.MarkOverdueBatch(ctx, &orgID, today)
	if err != nil {
		s.logger.Error("Organization invoice sweep failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memperbarui status faktur")
	}
	ordersMarked, err := s.orders.MarkOverdueBatch(ctx, &orgID, today)
	if err != nil {
		s.logger.Error("Organization purchase order sweep failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memperbarui status pesanan")
	}

	if invoicesMarked > 0 || ordersMarked > 0 {
		s.logger.Info("Organization overdue sweep",
			zap.String("organization_id", orgID.String()),
			zap.Int64("invoices_marked", invoicesMarked),
			zap.Int64("purchase_orders_marked", ordersMarked))
	}

	return &SweepResult{
		InvoicesMarked:       invoicesMarked,
		PurchaseOrdersMarked: ordersMarked,
	}, nil
}
