// Package document holds the invoice, purchase order and receipt aggregates.
package document

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/shared"
)

// Status represents the billing status of an invoice or purchase order
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSent || target == StatusPaid || target == StatusOverdue || target == StatusCancelled
	case StatusSent:
		return target == StatusPaid || target == StatusOverdue || target == StatusCancelled
	case StatusOverdue:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsOverdueCandidate returns true for statuses the daily sweep may transition
func (s Status) IsOverdueCandidate() bool {
	return s == StatusDraft || s == StatusSent
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate checks a YYYY-MM-DD date string
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return shared.NewDomainError("INVALID_DATE", "Tanggal harus berformat YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return shared.NewDomainError("INVALID_DATE", "Tanggal tidak valid")
	}
	return nil
}

// Today returns the current UTC date as YYYY-MM-DD.
// Dates are stored and compared as strings throughout; lexicographic order
// on this format matches chronological order.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Party is the denormalized customer or vendor snapshot on a document.
// Edits to the customer registry do not rewrite issued documents.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Validate checks the party snapshot
func (p Party) Validate() error {
	if p.Name == "" {
		return shared.NewDomainError("INVALID_PARTY", "Nama pelanggan tidak boleh kosong")
	}
	if len(p.Name) > 200 {
		return shared.NewDomainError("INVALID_PARTY", "Nama pelanggan tidak boleh melebihi 200 karakter")
	}
	return nil
}

// LineItem is one row of a document's denormalized line-item array
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLineItem creates a line item, computing the amount
func NewLineItem(description string, quantity, unitPrice decimal.Decimal) (LineItem, error) {
	if description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_ITEM", "Deskripsi item tidak boleh kosong")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Jumlah harus lebih dari nol")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Harga satuan tidak boleh negatif")
	}
	return LineItem{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice),
	}, nil
}

// LineItems is stored as a JSON array on the document row
type LineItems []LineItem

// Total sums the item amounts
func (items LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
