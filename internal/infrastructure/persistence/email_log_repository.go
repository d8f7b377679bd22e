package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/shared"
)

// GormEmailLogRepository implements document.EmailLogRepository using GORM
type GormEmailLogRepository struct {
	db *gorm.DB
}

// NewGormEmailLogRepository creates a new GormEmailLogRepository
func NewGormEmailLogRepository(db *gorm.DB) *GormEmailLogRepository {
	return &GormEmailLogRepository{db: db}
}

// Save appends a send attempt to the history
func (r *GormEmailLogRepository) Save(ctx context.Context, log *document.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByDocument lists the send history of one document, newest first
func (r *GormEmailLogRepository) FindByDocument(ctx context.Context, organizationID, documentID uuid.UUID) ([]document.EmailLog, error) {
	var logs []document.EmailLog
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND document_id = ?", organizationID, documentID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// List returns a page of email logs for an organization, newest first
func (r *GormEmailLogRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.EmailLog], error) {
	query := r.db.WithContext(ctx).
		Model(&document.EmailLog{}).
		Where("organization_id = ?", organizationID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("document_number ILIKE ? OR recipient ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	orderBy := ValidateSortField(filter.OrderBy, EmailLogSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var logs []document.EmailLog
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(logs, total, page, pageSize)
	return &result, nil
}

// Ensure GormEmailLogRepository implements EmailLogRepository
var _ document.EmailLogRepository = (*GormEmailLogRepository)(nil)
