package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/shared"
)

// PurchaseOrder is an outgoing order issued to a vendor
type PurchaseOrder struct {
	shared.OrgAggregateRoot
	shared.Lifecycle

	// Unique per organization; the composite index lives in the migration
	Number    string    `gorm:"type:varchar(50);not null;index"`
	Vendor    Party     `gorm:"embedded;embeddedPrefix:vendor_"`
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
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order. The document number is
// assigned by the repository at insert time.
func NewPurchaseOrder(organizationID, createdBy uuid.UUID, vendor Party, issueDate, dueDate string, taxRate decimal.Decimal, notes string) (*PurchaseOrder, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if err := vendor.Validate(); err != nil {
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

	po := &PurchaseOrder{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID, createdBy),
		Lifecycle:        shared.NewLifecycle(),
		Vendor:           vendor,
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

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))
	return po, nil
}

// AssignNumber sets the document number drawn for this purchase order
func (p *PurchaseOrder) AssignNumber(number string) error {
	if p.Number != "" {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Nomor dokumen sudah ditetapkan")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Nomor dokumen tidak boleh kosong")
	}
	p.Number = number
	return nil
}

// SetItems replaces the line items and recalculates totals
func (p *PurchaseOrder) SetItems(items LineItems) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	p.Items = items
	p.recalculate()
	p.Touch()
	return nil
}

// UpdateDetails edits the mutable header fields
func (p *PurchaseOrder) UpdateDetails(vendor Party, issueDate, dueDate string, taxRate decimal.Decimal, notes string) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	if err := vendor.Validate(); err != nil {
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

	p.Vendor = vendor
	p.IssueDate = issueDate
	p.DueDate = dueDate
	p.TaxRate = taxRate
	p.Notes = notes
	p.recalculate()
	p.Touch()
	return nil
}

// MarkSent records that the order has been delivered to the vendor
func (p *PurchaseOrder) MarkSent() error {
	if err := p.transition(StatusSent); err != nil {
		return err
	}
	now := time.Now()
	p.SentAt = &now
	return nil
}

// MarkPaid settles the order
func (p *PurchaseOrder) MarkPaid() error {
	if err := p.transition(StatusPaid); err != nil {
		return err
	}
	now := time.Now()
	p.PaidAt = &now
	return nil
}

// MarkOverdue flags the order as past due
func (p *PurchaseOrder) MarkOverdue(today string) error {
	if !p.Status.IsOverdueCandidate() {
		return shared.ErrInvalidState
	}
	if p.DueDate >= today {
		return shared.NewDomainError("NOT_DUE", "Pesanan belum jatuh tempo")
	}
	return p.transition(StatusOverdue)
}

// Cancel voids the order
func (p *PurchaseOrder) Cancel() error {
	return p.transition(StatusCancelled)
}

// Delete moves the order to the trash
func (p *PurchaseOrder) Delete() error {
	if err := p.MarkDeleted(); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// RestoreFromTrash brings a soft-deleted order back
func (p *PurchaseOrder) RestoreFromTrash() error {
	if err := p.Restore(); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *PurchaseOrder) transition(target Status) error {
	if !p.IsActive() {
		return shared.ErrInvalidState
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION", "Status pesanan tidak dapat diubah dari "+p.Status.String()+" ke "+target.String())
	}
	p.Status = target
	p.Touch()
	return nil
}

func (p *PurchaseOrder) ensureEditable() error {
	if !p.IsActive() {
		return shared.ErrInvalidState
	}
	if p.Status == StatusPaid || p.Status == StatusCancelled {
		return shared.NewDomainError("DOCUMENT_FINALIZED", "Pesanan yang sudah final tidak dapat diubah")
	}
	return nil
}

func (p *PurchaseOrder) recalculate() {
	p.Subtotal = p.Items.Total()
	p.TaxAmount = p.Subtotal.Mul(p.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	p.Total = p.Subtotal.Add(p.TaxAmount)
}
