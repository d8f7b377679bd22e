package document

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

// InvoiceRepository handles invoice persistence.
//
// Create draws the document number and inserts the row in one transaction;
// callers pass an invoice with no number assigned yet. FindByID and List only
// return rows belonging to organizationID. Soft-deleted rows are excluded
// unless the filter sets IncludeDeleted.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[Invoice], error)
	ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[Invoice], error)
	// Purge hard-deletes a soft-deleted row. Irreversible.
	Purge(ctx context.Context, organizationID, id uuid.UUID) error
	// MarkOverdueBatch transitions draft and sent invoices past their due date
	// to overdue in a single statement. A nil organizationID sweeps every
	// tenant; a non-nil one scopes the sweep. Returns the number of rows
	// transitioned.
	MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error)
	// PurgeTrashedBefore hard-deletes rows that have sat in the trash since
	// before the cutoff
	PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurchaseOrderRepository handles purchase order persistence
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	Update(ctx context.Context, po *PurchaseOrder) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*PurchaseOrder, error)
	List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)
	ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)
	Purge(ctx context.Context, organizationID, id uuid.UUID) error
	MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error)
	PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReceiptRepository handles receipt persistence
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *Receipt) error
	Update(ctx context.Context, receipt *Receipt) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*Receipt, error)
	List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[Receipt], error)
	ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[Receipt], error)
	Purge(ctx context.Context, organizationID, id uuid.UUID) error
	PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
