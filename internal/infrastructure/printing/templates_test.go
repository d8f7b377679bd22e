package printing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected string
	}{
		{"zero", decimal.Zero, "Rp 0,00"},
		{"small", decimal.NewFromInt(500), "Rp 500,00"},
		{"thousands", decimal.NewFromInt(1500), "Rp 1.500,00"},
		{"millions", decimal.NewFromInt(2220000), "Rp 2.220.000,00"},
		{"with cents", decimal.NewFromFloat(1234567.89), "Rp 1.234.567,89"},
		{"negative", decimal.NewFromInt(-5000), "-Rp 5.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatIDR(tt.amount))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2 Januari 2025", FormatDate("2025-01-02"))
	assert.Equal(t, "17 Agustus 2025", FormatDate("2025-08-17"))
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
	assert.Equal(t, "2025-13-01", FormatDate("2025-13-01"))
}

func testInvoice(t *testing.T) (*identity.Organization, *document.Invoice) {
	t.Helper()

	org, err := identity.NewOrganization("PT Contoh Jaya")
	require.NoError(t, err)
	require.NoError(t, org.Update("PT Contoh Jaya", "Jl. Sudirman No. 1, Jakarta", "021-555-0100", "info@contoh.co.id"))

	invoice, err := document.NewInvoice(org.ID, uuid.New(), document.Party{
		Name:    "Budi Santoso",
		Email:   "budi@example.com",
		Address: "Jl. Melati No. 5",
	}, "2025-01-10", "2025-02-10", decimal.NewFromInt(11), "Pembayaran via transfer")
	require.NoError(t, err)

	item, err := document.NewLineItem("Jasa desain", decimal.NewFromInt(2), decimal.NewFromInt(1000000))
	require.NoError(t, err)
	require.NoError(t, invoice.SetItems(document.LineItems{item}))
	require.NoError(t, invoice.AssignNumber("INV-2025-0001"))

	return org, invoice
}

func TestDocumentTemplates_InvoiceHTML(t *testing.T) {
	templates, err := NewDocumentTemplates()
	require.NoError(t, err)

	org, invoice := testInvoice(t)

	html, err := templates.InvoiceHTML(org, Branding{}, invoice)
	require.NoError(t, err)

	assert.Contains(t, html, "FAKTUR")
	assert.Contains(t, html, "INV-2025-0001")
	assert.Contains(t, html, "PT Contoh Jaya")
	assert.Contains(t, html, "Budi Santoso")
	assert.Contains(t, html, "Jasa desain")
	assert.Contains(t, html, "Rp 2.000.000,00") // subtotal
	assert.Contains(t, html, "Rp 220.000,00")   // 11% tax
	assert.Contains(t, html, "Rp 2.220.000,00") // total
	assert.Contains(t, html, "10 Januari 2025")
	assert.NotContains(t, html, "img class=\"logo\"")
}

func TestDocumentTemplates_InvoiceHTML_EscapesUserContent(t *testing.T) {
	templates, err := NewDocumentTemplates()
	require.NoError(t, err)

	org, invoice := testInvoice(t)
	item, err := document.NewLineItem("<script>alert(1)</script>", decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, invoice.SetItems(document.LineItems{item}))

	html, err := templates.InvoiceHTML(org, Branding{}, invoice)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestDocumentTemplates_ReceiptHTML(t *testing.T) {
	templates, err := NewDocumentTemplates()
	require.NoError(t, err)

	org, _ := testInvoice(t)
	receipt, err := document.NewReceipt(org.ID, uuid.New(), document.Party{Name: "Budi Santoso"},
		"2025-03-01", document.PaymentTransfer, decimal.NewFromInt(2220000), "Pelunasan faktur INV-2025-0001", nil)
	require.NoError(t, err)
	require.NoError(t, receipt.AssignNumber("KWT-2025-0001"))
	receipt.SetAmountInWords("dua juta dua ratus dua puluh ribu rupiah")

	html, err := templates.ReceiptHTML(org, Branding{}, receipt)
	require.NoError(t, err)

	assert.Contains(t, html, "KWITANSI")
	assert.Contains(t, html, "KWT-2025-0001")
	assert.Contains(t, html, "Terbilang: dua juta dua ratus dua puluh ribu rupiah")
	assert.Contains(t, html, "Rp 2.220.000,00")
	assert.Contains(t, html, "1 Maret 2025")
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("wraps fragments in a full document", func(t *testing.T) {
		html := buildCompleteHTML(&RenderRequest{HTML: "<p>isi</p>", Title: "Faktur"})

		assert.Contains(t, html, "<!DOCTYPE html>")
		assert.Contains(t, html, "<title>Faktur</title>")
		assert.Contains(t, html, "<p>isi</p>")
	})

	t.Run("leaves complete documents untouched", func(t *testing.T) {
		full := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))
	})
}
