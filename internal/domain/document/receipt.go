package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/shared"
)

// PaymentMethod identifies how a payment was received
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentQRIS     PaymentMethod = "qris"
	PaymentOther    PaymentMethod = "other"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentQRIS, PaymentOther:
		return true
	}
	return false
}

// Receipt (kwitansi) acknowledges a payment received. Unlike invoices and
// purchase orders it has no billing status machine: a receipt is final the
// moment it is issued.
type Receipt struct {
	shared.OrgAggregateRoot
	shared.Lifecycle

	// Unique per organization; the composite index lives in the migration
	Number        string          `gorm:"type:varchar(50);not null;index"`
	Payer         Party           `gorm:"embedded;embeddedPrefix:payer_"`
	PaymentDate   string          `gorm:"type:varchar(10);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	AmountInWords string          `gorm:"type:varchar(300)"`
	Description   string          `gorm:"type:text"`

	// Optional back-reference to the invoice this payment settles
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceipt creates a receipt. The document number is assigned by the
// repository at insert time.
func NewReceipt(organizationID, createdBy uuid.UUID, payer Party, paymentDate string, method PaymentMethod, amount decimal.Decimal, description string, invoiceID *uuid.UUID) (*Receipt, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if err := payer.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDate(paymentDate); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Metode pembayaran tidak dikenal")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Jumlah pembayaran harus lebih dari nol")
	}

	return &Receipt{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID, createdBy),
		Lifecycle:        shared.NewLifecycle(),
		Payer:            payer,
		PaymentDate:      paymentDate,
		PaymentMethod:    method,
		Amount:           amount,
		Description:      description,
		InvoiceID:        invoiceID,
	}, nil
}

// AssignNumber sets the document number drawn for this receipt
func (r *Receipt) AssignNumber(number string) error {
	if r.Number != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Nomor dokumen sudah ditetapkan")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Nomor dokumen tidak boleh kosong")
	}
	r.Number = number
	return nil
}

// Update edits the receipt details
func (r *Receipt) Update(payer Party, paymentDate string, method PaymentMethod, amount decimal.Decimal, description string) error {
	if !r.IsActive() {
		return shared.ErrInvalidState
	}
	if err := payer.Validate(); err != nil {
		return err
	}
	if err := ValidateDate(paymentDate); err != nil {
		return err
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Metode pembayaran tidak dikenal")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Jumlah pembayaran harus lebih dari nol")
	}

	r.Payer = payer
	r.PaymentDate = paymentDate
	r.PaymentMethod = method
	r.Amount = amount
	r.Description = description
	r.Touch()
	return nil
}

// SetAmountInWords stores the spelled-out amount printed on the receipt
func (r *Receipt) SetAmountInWords(words string) {
	r.AmountInWords = words
	r.Touch()
}

// Delete moves the receipt to the trash
func (r *Receipt) Delete() error {
	if err := r.MarkDeleted(); err != nil {
		return err
	}
	r.Touch()
	return nil
}

// RestoreFromTrash brings a soft-deleted receipt back
func (r *Receipt) RestoreFromTrash() error {
	if err := r.Restore(); err != nil {
		return err
	}
	r.Touch()
	return nil
}
