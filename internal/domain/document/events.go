package document

import (
	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/shared"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string          `json:"number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new invoice created event
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.created", "Invoice", invoice.ID, invoice.OrganizationID),
		Number:          invoice.Number,
		CustomerName:    invoice.Customer.Name,
		Total:           invoice.Total,
	}
}

// InvoiceSentEvent is published when an invoice is marked sent
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	Number        string `json:"number"`
	CustomerEmail string `json:"customer_email"`
}

// NewInvoiceSentEvent creates a new invoice sent event
func NewInvoiceSentEvent(invoice *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.sent", "Invoice", invoice.ID, invoice.OrganizationID),
		Number:          invoice.Number,
		CustomerEmail:   invoice.Customer.Email,
	}
}

// InvoicePaidEvent is published when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new invoice paid event
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.paid", "Invoice", invoice.ID, invoice.OrganizationID),
		Number:          invoice.Number,
		Total:           invoice.Total,
	}
}

// PurchaseOrderCreatedEvent is published when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	Number     string `json:"number"`
	VendorName string `json:"vendor_name"`
}

// NewPurchaseOrderCreatedEvent creates a new purchase order created event
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("purchase_order.created", "PurchaseOrder", po.ID, po.OrganizationID),
		Number:          po.Number,
		VendorName:      po.Vendor.Name,
	}
}
