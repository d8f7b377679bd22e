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

// GormReceiptRepository implements document.ReceiptRepository using GORM.
// Receipts have no due date and no status machine, so there is no overdue
// sweep here; everything else mirrors the other document repositories.
type GormReceiptRepository struct {
	db       *gorm.DB
	counters numbering.CounterRepository
	orgs     identity.OrganizationRepository
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB, counters numbering.CounterRepository, orgs identity.OrganizationRepository) *GormReceiptRepository {
	return &GormReceiptRepository{db: db, counters: counters, orgs: orgs}
}

// Create draws the document number and inserts the receipt in one transaction
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *document.Receipt) error {
	org, err := r.orgs.FindByID(ctx, receipt.OrganizationID)
	if err != nil {
		return err
	}

	year := numbering.CurrentYear()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		alloc, err := r.counters.AllocateNext(tx, receipt.OrganizationID, numbering.DocTypeReceipt, year, org.Prefixes.Receipt)
		if err != nil {
			return err
		}
		if err := receipt.AssignNumber(alloc.Number); err != nil {
			return err
		}
		return tx.Create(receipt).Error
	})
}

// Update saves changes to an existing receipt
func (r *GormReceiptRepository) Update(ctx context.Context, receipt *document.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// FindByID finds a receipt by ID within an organization
func (r *GormReceiptRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*document.Receipt, error) {
	var receipt document.Receipt
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// List returns a page of active receipts for an organization
func (r *GormReceiptRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Receipt], error) {
	return r.list(ctx, organizationID, filter, shared.LifecycleActive)
}

// ListTrash returns a page of soft-deleted receipts for an organization
func (r *GormReceiptRepository) ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Receipt], error) {
	return r.list(ctx, organizationID, filter, shared.LifecycleDeleted)
}

func (r *GormReceiptRepository) list(ctx context.Context, organizationID uuid.UUID, filter shared.Filter, state shared.LifecycleState) (*shared.Paginated[document.Receipt], error) {
	query := r.db.WithContext(ctx).
		Model(&document.Receipt{}).
		Where("organization_id = ? AND state = ?", organizationID, state)
	query = applyReceiptFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	orderBy := ValidateSortField(filter.OrderBy, ReceiptSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var receipts []document.Receipt
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&receipts).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(receipts, total, page, pageSize)
	return &result, nil
}

func applyReceiptFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR payer_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "invoice_id":
			query = query.Where("invoice_id = ?", value)
		case "payment_date_from":
			query = query.Where("payment_date >= ?", value)
		case "payment_date_to":
			query = query.Where("payment_date <= ?", value)
		}
	}
	return query
}

// Purge hard-deletes a soft-deleted receipt. Irreversible.
func (r *GormReceiptRepository) Purge(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ? AND state = ?", organizationID, id, shared.LifecycleDeleted).
		Delete(&document.Receipt{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// PurgeTrashedBefore hard-deletes receipts trashed since before the cutoff
func (r *GormReceiptRepository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("state = ? AND deleted_at < ?", shared.LifecycleDeleted, cutoff).
		Delete(&document.Receipt{})
	return result.RowsAffected, result.Error
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ document.ReceiptRepository = (*GormReceiptRepository)(nil)
