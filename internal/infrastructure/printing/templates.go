package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
)

// Branding holds the organization's images resolved to data URLs, ready to
// inline into the rendered document
type Branding struct {
	LogoDataURL      string
	SignatureDataURL string
	StampDataURL     string
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatIDR renders an amount as Indonesian rupiah, e.g. "Rp 1.234.567,89"
func FormatIDR(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "Rp " + strings.Join(groups, ".") + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatDate renders an ISO date (YYYY-MM-DD) as "2 Januari 2025".
// Falls back to the raw value when the input is malformed.
func FormatDate(isoDate string) string {
	var year, month, day int
	if _, err := fmt.Sscanf(isoDate, "%d-%d-%d", &year, &month, &day); err != nil {
		return isoDate
	}
	if month < 1 || month > 12 {
		return isoDate
	}
	return fmt.Sprintf("%d %s %d", day, indonesianMonths[month-1], year)
}

const baseStyle = `
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a1a; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .header img.logo { max-height: 64px; }
  .org-name { font-size: 18px; font-weight: bold; }
  .doc-title { font-size: 22px; font-weight: bold; text-align: right; letter-spacing: 1px; }
  .doc-number { text-align: right; color: #555; }
  .meta { margin-bottom: 16px; }
  .meta td { padding: 1px 12px 1px 0; vertical-align: top; }
  table.items { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  table.items th { background: #f0f0f0; text-align: left; padding: 6px; border-bottom: 2px solid #ccc; }
  table.items td { padding: 6px; border-bottom: 1px solid #e0e0e0; }
  .num { text-align: right; }
  .totals { width: 40%; margin-left: 60%; }
  .totals td { padding: 3px 0; }
  .totals .grand { font-weight: bold; font-size: 14px; border-top: 2px solid #1a1a1a; }
  .notes { margin-top: 16px; color: #555; white-space: pre-wrap; }
  .signature { margin-top: 48px; width: 220px; float: right; text-align: center; }
  .signature img { max-height: 72px; }
  .amount-words { font-style: italic; margin: 12px 0; }
</style>`

const invoiceTemplate = baseStyle + `
<div class="header">
  <div>
    {{if .Branding.LogoDataURL}}<img class="logo" src="{{.Branding.LogoDataURL}}">{{end}}
    <div class="org-name">{{.Org.Name}}</div>
    <div>{{.Org.Address}}</div>
    <div>{{.Org.Phone}} {{.Org.Email}}</div>
  </div>
  <div>
    <div class="doc-title">FAKTUR</div>
    <div class="doc-number">{{.Invoice.Number}}</div>
  </div>
</div>
<table class="meta">
  <tr><td>Kepada</td><td><strong>{{.Invoice.Customer.Name}}</strong><br>{{.Invoice.Customer.Address}}<br>{{.Invoice.Customer.Email}}</td></tr>
  <tr><td>Tanggal Terbit</td><td>{{date .Invoice.IssueDate}}</td></tr>
  <tr><td>Jatuh Tempo</td><td>{{date .Invoice.DueDate}}</td></tr>
</table>
<table class="items">
  <tr><th>No</th><th>Deskripsi</th><th class="num">Jumlah</th><th class="num">Harga Satuan</th><th class="num">Subtotal</th></tr>
  {{range $i, $item := .Invoice.Items}}
  <tr>
    <td>{{inc $i}}</td>
    <td>{{$item.Description}}</td>
    <td class="num">{{$item.Quantity}}</td>
    <td class="num">{{idr $item.UnitPrice}}</td>
    <td class="num">{{idr $item.Amount}}</td>
  </tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{idr .Invoice.Subtotal}}</td></tr>
  <tr><td>Pajak ({{.Invoice.TaxRate}}%)</td><td class="num">{{idr .Invoice.TaxAmount}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{idr .Invoice.Total}}</td></tr>
</table>
{{if .Invoice.Notes}}<div class="notes">{{.Invoice.Notes}}</div>{{end}}
<div class="signature">
  {{if .Branding.SignatureDataURL}}<img src="{{.Branding.SignatureDataURL}}">{{end}}
  {{if .Branding.StampDataURL}}<img src="{{.Branding.StampDataURL}}">{{end}}
  <div>{{.Org.Name}}</div>
</div>`

const purchaseOrderTemplate = baseStyle + `
<div class="header">
  <div>
    {{if .Branding.LogoDataURL}}<img class="logo" src="{{.Branding.LogoDataURL}}">{{end}}
    <div class="org-name">{{.Org.Name}}</div>
    <div>{{.Org.Address}}</div>
    <div>{{.Org.Phone}} {{.Org.Email}}</div>
  </div>
  <div>
    <div class="doc-title">PESANAN PEMBELIAN</div>
    <div class="doc-number">{{.Order.Number}}</div>
  </div>
</div>
<table class="meta">
  <tr><td>Kepada</td><td><strong>{{.Order.Vendor.Name}}</strong><br>{{.Order.Vendor.Address}}<br>{{.Order.Vendor.Email}}</td></tr>
  <tr><td>Tanggal Terbit</td><td>{{date .Order.IssueDate}}</td></tr>
  <tr><td>Jatuh Tempo</td><td>{{date .Order.DueDate}}</td></tr>
</table>
<table class="items">
  <tr><th>No</th><th>Deskripsi</th><th class="num">Jumlah</th><th class="num">Harga Satuan</th><th class="num">Subtotal</th></tr>
  {{range $i, $item := .Order.Items}}
  <tr>
    <td>{{inc $i}}</td>
    <td>{{$item.Description}}</td>
    <td class="num">{{$item.Quantity}}</td>
    <td class="num">{{idr $item.UnitPrice}}</td>
    <td class="num">{{idr $item.Amount}}</td>
  </tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{idr .Order.Subtotal}}</td></tr>
  <tr><td>Pajak ({{.Order.TaxRate}}%)</td><td class="num">{{idr .Order.TaxAmount}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{idr .Order.Total}}</td></tr>
</table>
{{if .Order.Notes}}<div class="notes">{{.Order.Notes}}</div>{{end}}
<div class="signature">
  {{if .Branding.SignatureDataURL}}<img src="{{.Branding.SignatureDataURL}}">{{end}}
  {{if .Branding.StampDataURL}}<img src="{{.Branding.StampDataURL}}">{{end}}
  <div>{{.Org.Name}}</div>
</div>`

const receiptTemplate = baseStyle + `
<div class="header">
  <div>
    {{if .Branding.LogoDataURL}}<img class="logo" src="{{.Branding.LogoDataURL}}">{{end}}
    <div class="org-name">{{.Org.Name}}</div>
    <div>{{.Org.Address}}</div>
    <div>{{.Org.Phone}} {{.Org.Email}}</div>
  </div>
  <div>
    <div class="doc-title">KWITANSI</div>
    <div class="doc-number">{{.Receipt.Number}}</div>
  </div>
</div>
<table class="meta">
  <tr><td>Telah diterima dari</td><td><strong>{{.Receipt.Payer.Name}}</strong><br>{{.Receipt.Payer.Address}}</td></tr>
  <tr><td>Tanggal Pembayaran</td><td>{{date .Receipt.PaymentDate}}</td></tr>
  <tr><td>Metode Pembayaran</td><td>{{.Receipt.PaymentMethod}}</td></tr>
  <tr><td>Untuk Pembayaran</td><td>{{.Receipt.Description}}</td></tr>
</table>
<table class="totals" style="margin-left:0;width:100%">
  <tr class="grand"><td>Jumlah</td><td class="num">{{idr .Receipt.Amount}}</td></tr>
</table>
{{if .Receipt.AmountInWords}}<div class="amount-words">Terbilang: {{.Receipt.AmountInWords}}</div>{{end}}
<div class="signature">
  {{if .Branding.SignatureDataURL}}<img src="{{.Branding.SignatureDataURL}}">{{end}}
  {{if .Branding.StampDataURL}}<img src="{{.Branding.StampDataURL}}">{{end}}
  <div>{{.Org.Name}}</div>
</div>`

// DocumentTemplates renders documents to printable HTML fragments
type DocumentTemplates struct {
	invoice       *template.Template
	purchaseOrder *template.Template
	receipt       *template.Template
}

// NewDocumentTemplates parses the built-in document templates
func NewDocumentTemplates() (*DocumentTemplates, error) {
	funcs := template.FuncMap{
		"idr":  FormatIDR,
		"date": FormatDate,
		"inc":  func(i int) int { return i + 1 },
	}

	inv, err := template.New("invoice").Funcs(funcs).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	po, err := template.New("purchase_order").Funcs(funcs).Parse(purchaseOrderTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse purchase order template: %w", err)
	}
	rcpt, err := template.New("receipt").Funcs(funcs).Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}

	return &DocumentTemplates{invoice: inv, purchaseOrder: po, receipt: rcpt}, nil
}

// InvoiceHTML renders an invoice to a printable HTML fragment
func (t *DocumentTemplates) InvoiceHTML(org *identity.Organization, branding Branding, invoice *document.Invoice) (string, error) {
	var buf bytes.Buffer
	err := t.invoice.Execute(&buf, map[string]interface{}{
		"Org":      org,
		"Branding": branding,
		"Invoice":  invoice,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}

// PurchaseOrderHTML renders a purchase order to a printable HTML fragment
func (t *DocumentTemplates) PurchaseOrderHTML(org *identity.Organization, branding Branding, order *document.PurchaseOrder) (string, error) {
	var buf bytes.Buffer
	err := t.purchaseOrder.Execute(&buf, map[string]interface{}{
		"Org":      org,
		"Branding": branding,
		"Order":    order,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render purchase order template: %w", err)
	}
	return buf.String(), nil
}

// ReceiptHTML renders a receipt to a printable HTML fragment
func (t *DocumentTemplates) ReceiptHTML(org *identity.Organization, branding Branding, receipt *document.Receipt) (string, error) {
	var buf bytes.Buffer
	err := t.receipt.Execute(&buf, map[string]interface{}{
		"Org":      org,
		"Branding": branding,
		"Receipt":  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render receipt template: %w", err)
	}
	return buf.String(), nil
}
