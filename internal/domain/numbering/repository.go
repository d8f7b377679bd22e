package numbering

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocation is the result of atomically drawing the next number for a key
type Allocation struct {
	Number   string
	Sequence int64
}

// CounterRepository handles persistence of document counters.
//
// AllocateNext must be atomic: the read-increment-write happens as one
// statement so two concurrent allocations for the same key can never observe
// the same sequence. It takes the transaction handle of the enclosing
// document insert so that number allocation and document creation commit or
// roll back together — the number is only consumed when the document lands.
type CounterRepository interface {
	// PeekNext returns the number the next allocation would produce, without
	// side effects. Safe to call repeatedly; purely advisory for UI preview
	// and may be stale by the time the document is created.
	PeekNext(ctx context.Context, organizationID uuid.UUID, docType DocType, year int, prefix string) (Allocation, error)

	// AllocateNext atomically increments the counter for the key inside tx,
	// creating the row lazily on first use, and returns the drawn number.
	AllocateNext(tx *gorm.DB, organizationID uuid.UUID, docType DocType, year int, prefix string) (Allocation, error)
}
