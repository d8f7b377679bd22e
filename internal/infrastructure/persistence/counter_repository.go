package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/invois/backend/internal/domain/numbering"
)

// GormCounterRepository implements numbering.CounterRepository using GORM.
//
// Allocation is a single upsert: INSERT .. ON CONFLICT (organization_id, type,
// year) DO UPDATE SET last_number = last_number + 1 RETURNING last_number. The
// row lock taken by the statement serializes concurrent allocations for the
// same key, so two creations can never draw the same sequence, and because the
// statement runs on the caller's transaction the number is only consumed when
// the document insert commits.
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// PeekNext returns the number the next allocation would produce, without side
// effects
func (r *GormCounterRepository) PeekNext(ctx context.Context, organizationID uuid.UUID, docType numbering.DocType, year int, prefix string) (numbering.Allocation, error) {
	if prefix == "" {
		prefix = docType.DefaultPrefix()
	}

	var counter numbering.Counter
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND type = ? AND year = ?", organizationID, docType, year).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No row yet: the first allocation of the key yields sequence 1
			return numbering.Allocation{
				Number:   numbering.Format(prefix, year, 1),
				Sequence: 1,
			}, nil
		}
		return numbering.Allocation{}, err
	}

	next := counter.LastNumber + 1
	return numbering.Allocation{
		Number:   numbering.Format(prefix, year, next),
		Sequence: next,
	}, nil
}

// AllocateNext atomically increments the counter for the key inside tx,
// creating the row lazily on first use, and returns the drawn number.
// The prefix override is written on every allocation so a renamed prefix
// takes effect immediately.
func (r *GormCounterRepository) AllocateNext(tx *gorm.DB, organizationID uuid.UUID, docType numbering.DocType, year int, prefix string) (numbering.Allocation, error) {
	if prefix == "" {
		prefix = docType.DefaultPrefix()
	}

	counter, err := numbering.NewCounter(organizationID, docType, year, prefix)
	if err != nil {
		return numbering.Allocation{}, err
	}
	counter.LastNumber = 1

	err = tx.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{
				{Name: "organization_id"},
				{Name: "type"},
				{Name: "year"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_number": gorm.Expr("document_counters.last_number + 1"),
				"prefix":      prefix,
				"updated_at":  time.Now(),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "last_number"}}},
	).Create(counter).Error
	if err != nil {
		return numbering.Allocation{}, err
	}

	return numbering.Allocation{
		Number:   numbering.Format(prefix, year, counter.LastNumber),
		Sequence: counter.LastNumber,
	}, nil
}

// Ensure GormCounterRepository implements CounterRepository
var _ numbering.CounterRepository = (*GormCounterRepository)(nil)
