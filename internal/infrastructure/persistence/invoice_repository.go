package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/numbering"
	"github.com/invois/backend/internal/domain/shared"
)

// GormInvoiceRepository implements document.InvoiceRepository using GORM.
// Document creation draws the next number from the counter inside the same
// transaction as the insert, so a rolled-back insert never consumes a number
// and concurrent creations never collide.
type GormInvoiceRepository struct {
	db       *gorm.DB
	counters numbering.CounterRepository
	orgs     identity.OrganizationRepository
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB, counters numbering.CounterRepository, orgs identity.OrganizationRepository) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, counters: counters, orgs: orgs}
}

// Create draws the document number and inserts the invoice in one transaction
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *document.Invoice) error {
	org, err := r.orgs.FindByID(ctx, invoice.OrganizationID)
	if err != nil {
		return err
	}

	year := numbering.CurrentYear()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		alloc, err := r.counters.AllocateNext(tx, invoice.OrganizationID, numbering.DocTypeInvoice, year, org.Prefixes.Invoice)
		if err != nil {
			return err
		}
		if err := invoice.AssignNumber(alloc.Number); err != nil {
			return err
		}
		return tx.Create(invoice).Error
	})
}

// Update saves changes to an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *document.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// FindByID finds an invoice by ID within an organization. Returns trashed rows
// too; callers decide whether a trashed row is visible for their operation.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*document.Invoice, error) {
	var invoice document.Invoice
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// List returns a page of active invoices for an organization
func (r *GormInvoiceRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Invoice], error) {
	return r.list(ctx, organizationID, filter, shared.LifecycleActive)
}

// ListTrash returns a page of soft-deleted invoices for an organization
func (r *GormInvoiceRepository) ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Invoice], error) {
	return r.list(ctx, organizationID, filter, shared.LifecycleDeleted)
}

func (r *GormInvoiceRepository) list(ctx context.Context, organizationID uuid.UUID, filter shared.Filter, state shared.LifecycleState) (*shared.Paginated[document.Invoice], error) {
	query := r.db.WithContext(ctx).
		Model(&document.Invoice{}).
		Where("organization_id = ? AND state = ?", organizationID, state)
	query = applyInvoiceFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var invoices []document.Invoice
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(invoices, total, page, pageSize)
	return &result, nil
}

func applyInvoiceFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_email":
			query = query.Where("customer_email = ?", value)
		case "issue_date_from":
			query = query.Where("issue_date >= ?", value)
		case "issue_date_to":
			query = query.Where("issue_date <= ?", value)
		}
	}
	return query
}

// Purge hard-deletes a soft-deleted invoice. Irreversible.
func (r *GormInvoiceRepository) Purge(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ? AND state = ?", organizationID, id, shared.LifecycleDeleted).
		Delete(&document.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkOverdueBatch transitions draft and sent invoices past their due date to
// overdue in a single statement. A nil organizationID sweeps every tenant.
func (r *GormInvoiceRepository) MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&document.Invoice{}).
		Where("state = ?", shared.LifecycleActive).
		Where("status IN ?", []document.Status{document.StatusDraft, document.StatusSent}).
		Where("due_date < ?", today)
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}

	result := query.Updates(map[string]interface{}{
		"status":     document.StatusOverdue,
		"updated_at": time.Now(),
	})
	return result.RowsAffected, result.Error
}

// PurgeTrashedBefore hard-deletes invoices trashed since before the cutoff
func (r *GormInvoiceRepository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("state = ? AND deleted_at < ?", shared.LifecycleDeleted, cutoff).
		Delete(&document.Invoice{})
	return result.RowsAffected, result.Error
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ document.InvoiceRepository = (*GormInvoiceRepository)(nil)
