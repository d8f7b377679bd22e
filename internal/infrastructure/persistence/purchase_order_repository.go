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

// GormPurchaseOrderRepository implements document.PurchaseOrderRepository
// using GORM. Numbering follows the same in-transaction allocation as
// invoices, drawing from the purchase order sequence.
type GormPurchaseOrderRepository struct {
	db       *gorm.DB
	counters numbering.CounterRepository
	orgs     identity.OrganizationRepository
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB, counters numbering.CounterRepository, orgs identity.OrganizationRepository) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db, counters: counters, orgs: orgs}
}

// Create draws the document number and inserts the purchase order in one
// transaction
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *document.PurchaseOrder) error {
	org, err := r.orgs.FindByID(ctx, po.OrganizationID)
	if err != nil {
		return err
	}

	year := numbering.CurrentYear()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		alloc, err := r.counters.AllocateNext(tx, po.OrganizationID, numbering.DocTypePurchaseOrder, year, org.Prefixes.PurchaseOrder)
		if err != nil {
			return err
		}
		if err := po.AssignNumber(alloc.Number); err != nil {
			return err
		}
		return tx.Create(po).Error
	})
}

// Update saves changes to an existing purchase order
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, po *document.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// FindByID finds a purchase order by ID within an organization
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*document.PurchaseOrder, error) {
	var po document.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// List returns a page of active purchase orders for an organization
func (r *GormPurchaseOrderRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.PurchaseOrder], error) {
	return r.list(ctx, organizationID, filter, shared.LifecycleActive)
}

// ListTrash returns a page of soft-deleted purchase orders for an organization
func (r *GormPurchaseOrderRepository) ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.PurchaseOrder], error) {
	return r.list(ctx, organizationID, filter, shared.LifecycleDeleted)
}

func (r *GormPurchaseOrderRepository) list(ctx context.Context, organizationID uuid.UUID, filter shared.Filter, state shared.LifecycleState) (*shared.Paginated[document.PurchaseOrder], error) {
	query := r.db.WithContext(ctx).
		Model(&document.PurchaseOrder{}).
		Where("organization_id = ? AND state = ?", organizationID, state)
	query = applyPurchaseOrderFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []document.PurchaseOrder
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, page, pageSize)
	return &result, nil
}

func applyPurchaseOrderFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR vendor_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "vendor_email":
			query = query.Where("vendor_email = ?", value)
		case "issue_date_from":
			query = query.Where("issue_date >= ?", value)
		case "issue_date_to":
			query = query.Where("issue_date <= ?", value)
		}
	}
	return query
}

// Purge hard-deletes a soft-deleted purchase order. Irreversible.
func (r *GormPurchaseOrderRepository) Purge(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ? AND state = ?", organizationID, id, shared.LifecycleDeleted).
		Delete(&document.PurchaseOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkOverdueBatch transitions draft and sent purchase orders past their due
// date to overdue in a single statement
func (r *GormPurchaseOrderRepository) MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&document.PurchaseOrder{}).
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

// PurgeTrashedBefore hard-deletes purchase orders trashed since before the
// cutoff
func (r *GormPurchaseOrderRepository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("state = ? AND deleted_at < ?", shared.LifecycleDeleted, cutoff).
		Delete(&document.PurchaseOrder{})
	return result.RowsAffected, result.Error
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ document.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
