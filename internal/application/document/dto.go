// Package document holds the application services for invoices, purchase
// orders and receipts: CRUD with tenant-scoped numbering, trash lifecycle,
// PDF rendering and delivery by email.
package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/document"
)

// PartyInput is the customer, vendor or payer snapshot supplied by the caller
type PartyInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (p PartyInput) toParty() document.Party {
	return document.Party{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
	}
}

// LineItemInput is one requested document line
type LineItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

func buildLineItems(inputs []LineItemInput) (document.LineItems, error) {
	items := make(document.LineItems, 0, len(inputs))
	for _, in := range inputs {
		item, err := document.NewLineItem(in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateInvoiceInput carries the fields of a new invoice. The document number
// is drawn at insert time and never supplied by the caller.
type CreateInvoiceInput struct {
	Customer  PartyInput      `json:"customer" binding:"required"`
	IssueDate string          `json:"issue_date" binding:"required,docdate"`
	DueDate   string          `json:"due_date" binding:"required,docdate"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Notes     string          `json:"notes"`
	Items     []LineItemInput `json:"items"`
}

// UpdateInvoiceInput carries the editable fields of an invoice
type UpdateInvoiceInput struct {
	Customer  PartyInput      `json:"customer" binding:"required"`
	IssueDate string          `json:"issue_date" binding:"required,docdate"`
	DueDate   string          `json:"due_date" binding:"required,docdate"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Notes     string          `json:"notes"`
	Items     []LineItemInput `json:"items"`
}

// CreatePurchaseOrderInput carries the fields of a new purchase order
type CreatePurchaseOrderInput struct {
	Vendor    PartyInput      `json:"vendor" binding:"required"`
	IssueDate string          `json:"issue_date" binding:"required,docdate"`
	DueDate   string          `json:"due_date" binding:"required,docdate"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Notes     string          `json:"notes"`
	Items     []LineItemInput `json:"items"`
}

// UpdatePurchaseOrderInput carries the editable fields of a purchase order
type UpdatePurchaseOrderInput struct {
	Vendor    PartyInput      `json:"vendor" binding:"required"`
	IssueDate string          `json:"issue_date" binding:"required,docdate"`
	DueDate   string          `json:"due_date" binding:"required,docdate"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Notes     string          `json:"notes"`
	Items     []LineItemInput `json:"items"`
}

// CreateReceiptInput carries the fields of a new receipt. AmountInWords is
// spelled out automatically when left empty.
type CreateReceiptInput struct {
	Payer         PartyInput             `json:"payer" binding:"required"`
	PaymentDate   string                 `json:"payment_date" binding:"required,docdate"`
	PaymentMethod document.PaymentMethod `json:"payment_method" binding:"required"`
	Amount        decimal.Decimal        `json:"amount" binding:"required"`
	AmountInWords string                 `json:"amount_in_words"`
	Description   string                 `json:"description"`
	InvoiceID     *uuid.UUID             `json:"invoice_id"`
}

// UpdateReceiptInput carries the editable fields of a receipt
type UpdateReceiptInput struct {
	Payer         PartyInput             `json:"payer" binding:"required"`
	PaymentDate   string                 `json:"payment_date" binding:"required,docdate"`
	PaymentMethod document.PaymentMethod `json:"payment_method" binding:"required"`
	Amount        decimal.Decimal        `json:"amount" binding:"required"`
	AmountInWords string                 `json:"amount_in_words"`
	Description   string                 `json:"description"`
}

// NumberPreview is the advisory next document number for UI display. It is
// not a reservation; the actual number is drawn when the document is created.
type NumberPreview struct {
	Number   string `json:"number"`
	Sequence int64  `json:"sequence"`
}

// RenderedDocument is a finished PDF ready to download or attach
type RenderedDocument struct {
	FileName       string
	PDF            []byte
	RenderDuration time.Duration
}

// SendInput overrides the defaults of an outbound document email. Empty
// fields fall back to the document's party email and a standard Indonesian
// subject and body.
type SendInput struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// SweepResult reports how many documents an on-demand overdue sweep moved
type SweepResult struct {
	InvoicesMarked       int64 `json:"invoices_marked"`
	PurchaseOrdersMarked int64 `json:"purchase_orders_marked"`
}
