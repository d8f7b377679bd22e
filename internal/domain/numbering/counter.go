// Package numbering produces human-readable document numbers scoped to
// (organization, document type, calendar year).
package numbering

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

// DocType identifies which counter sequence a document draws from
type DocType string

const (
	DocTypeInvoice       DocType = "invoice"
	DocTypePurchaseOrder DocType = "purchase_order"
	DocTypeReceipt       DocType = "receipt"
)

// IsValid checks if the type is a known DocType
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeInvoice, DocTypePurchaseOrder, DocTypeReceipt:
		return true
	}
	return false
}

// DefaultPrefix returns the system default prefix for the type.
// KWT is short for kwitansi (receipt).
func (t DocType) DefaultPrefix() string {
	switch t {
	case DocTypeInvoice:
		return "INV"
	case DocTypePurchaseOrder:
		return "PO"
	case DocTypeReceipt:
		return "KWT"
	}
	return ""
}

// Counter is one sequence row, keyed by (organization, type, year).
// LastNumber is monotonically non-decreasing within a key; numbers are never
// reused and counter rows are never deleted. A new calendar year simply has
// no row yet, so its sequence restarts at 1.
type Counter struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_counter_key,priority:1"`
	Type           DocType   `gorm:"type:varchar(30);not null;uniqueIndex:idx_counter_key,priority:2"`
	Year           int       `gorm:"not null;uniqueIndex:idx_counter_key,priority:3"`
	Prefix         string    `gorm:"type:varchar(10);not null"`
	LastNumber     int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (Counter) TableName() string {
	return "document_counters"
}

// NewCounter creates a fresh counter row for a key with LastNumber 0.
// The first allocation against it yields sequence 1.
func NewCounter(organizationID uuid.UUID, docType DocType, year int, prefix string) (*Counter, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Unknown document type")
	}
	if prefix == "" {
		prefix = docType.DefaultPrefix()
	}

	now := time.Now()
	return &Counter{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Type:           docType,
		Year:           year,
		Prefix:         prefix,
		LastNumber:     0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Format renders a document number: {PREFIX}-{YYYY}-{NNNN}, zero-padded to
// four digits and unbounded beyond 9999 (e.g. INV-2025-0001, INV-2025-10000).
func Format(prefix string, year int, sequence int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, sequence)
}

// Number renders the document number for a given sequence of this counter
func (c *Counter) Number(sequence int64) string {
	return Format(c.Prefix, c.Year, sequence)
}

// CurrentYear returns the calendar year used for counter keys (UTC)
func CurrentYear() int {
	return time.Now().UTC().Year()
}
