package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/shared"
)

// Invoice is a billing document issued to a customer
type Invoice struct {
	shared.OrgAggregateRoot
	shared.Lifecycle

	// Unique per organization; the composite index lives in the migration
	Number    string    `gorm:"type:varchar(50);not null;index"`
	Customer  Party     `gorm:"embedded;embeddedPrefix:customer_"`
	IssueDate string    `gorm:"type:varchar(10);not null"`
	DueDate   string    `gorm:"type:varchar(10);not null;index"`
	Items     LineItems `gorm:"type:jsonb;serializer:json"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Total     decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	Status Status `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes  string `gorm:"type:text"`

	SentAt *time.Time
	PaidAt *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a draft invoice. The document number is assigned by the
// repository at insert time, inside the same transaction that draws it.
func NewInvoice(organizationID, createdBy uuid.UUID, customer Party, issueDate, dueDate string, taxRate decimal.Decimal, notes string) (*Invoice, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDate(issueDate); err != nil {
		return nil, err
	}
	if err := ValidateDate(dueDate); err != nil {
		return nil, err
	}
	if dueDate < issueDate {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Tanggal jatuh tempo tidak boleh sebelum tanggal terbit")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tarif pajak tidak boleh negatif")
	}

	invoice := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID, createdBy),
		Lifecycle:        shared.NewLifecycle(),
		Customer:         customer,
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Items:            LineItems{},
		Subtotal:         decimal.Zero,
		TaxRate:          taxRate,
		TaxAmount:        decimal.Zero,
		Total:            decimal.Zero,
		Status:           StatusDraft,
		Notes:            notes,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))
	return invoice, nil
}

// AssignNumber sets the document number drawn for this invoice. Numbers are
// write-once.
func (i *Invoice) AssignNumber(number string) error {
	if i.Number != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Nomor dokumen sudah ditetapkan")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Nomor dokumen tidak boleh kosong")
	}
	i.Number = number
	return nil
}

// SetItems replaces the line items and recalculates totals
func (i *Invoice) SetItems(items LineItems) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	i.Items = items
	i.recalculate()
	i.Touch()
	return nil
}

// UpdateDetails edits the mutable header fields of a draft or sent invoice
func (i *Invoice) UpdateDetails(customer Party, issueDate, dueDate string, taxRate decimal.Decimal, notes string) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	if err := customer.Validate(); err != nil {
		return err
	}
	if err := ValidateDate(issueDate); err != nil {
		return err
	}
	if err := ValidateDate(dueDate); err != nil {
		return err
	}
	if dueDate < issueDate {
		return shared.NewDomainError("INVALID_DUE_DATE", "Tanggal jatuh tempo tidak boleh sebelum tanggal terbit")
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tarif pajak tidak boleh negatif")
	}

	i.Customer = customer
	i.IssueDate = issueDate
	i.DueDate = dueDate
	i.TaxRate = taxRate
	i.Notes = notes
	i.recalculate()
	i.Touch()
	return nil
}

// MarkSent records that the invoice has been delivered to the customer
func (i *Invoice) MarkSent() error {
	if err := i.transition(StatusSent); err != nil {
		return err
	}
	now := time.Now()
	i.SentAt = &now
	i.AddDomainEvent(NewInvoiceSentEvent(i))
	return nil
}

// MarkPaid settles the invoice
func (i *Invoice) MarkPaid() error {
	if err := i.transition(StatusPaid); err != nil {
		return err
	}
	now := time.Now()
	i.PaidAt = &now
	i.AddDomainEvent(NewInvoicePaidEvent(i))
	return nil
}

// MarkOverdue flags the invoice as past due. Used by the daily sweep and the
// on-demand tenant sweep; only draft and sent invoices qualify.
func (i *Invoice) MarkOverdue(today string) error {
	if !i.Status.IsOverdueCandidate() {
		return shared.ErrInvalidState
	}
	if i.DueDate >= today {
		return shared.NewDomainError("NOT_DUE", "Faktur belum jatuh tempo")
	}
	return i.transition(StatusOverdue)
}

// Cancel voids the invoice
func (i *Invoice) Cancel() error {
	return i.transition(StatusCancelled)
}

// Delete moves the invoice to the trash
func (i *Invoice) Delete() error {
	if err := i.MarkDeleted(); err != nil {
		return err
	}
	i.Touch()
	return nil
}

// RestoreFromTrash brings a soft-deleted invoice back
func (i *Invoice) RestoreFromTrash() error {
	if err := i.Restore(); err != nil {
		return err
	}
	i.Touch()
	return nil
}

func (i *Invoice) transition(target Status) error {
	if !i.IsActive() {
		return shared.ErrInvalidState
	}
	if !i.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION", "Status faktur tidak dapat diubah dari "+i.Status.String()+" ke "+target.String())
	}
	i.Status = target
	i.Touch()
	return nil
}

func (i *Invoice) ensureEditable() error {
	if !i.IsActive() {
		return shared.ErrInvalidState
	}
	if i.Status == StatusPaid || i.Status == StatusCancelled {
		return shared.NewDomainError("DOCUMENT_FINALIZED", "Faktur yang sudah final tidak dapat diubah")
	}
	return nil
}

func (i *Invoice) recalculate() {
	i.Subtotal = i.Items.Total()
	i.TaxAmount = i.Subtotal.Mul(i.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	i.Total = i.Subtotal.Add(i.TaxAmount)
}
