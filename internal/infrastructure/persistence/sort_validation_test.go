package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ascending", "asc", "ASC"},
		{"ascending upper", "ASC", "ASC"},
		{"descending", "desc", "DESC"},
		{"empty defaults to descending", "", "DESC"},
		{"garbage defaults to descending", "; DROP TABLE invoices", "DESC"},
		{"whitespace is trimmed", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fields   map[string]bool
		expected string
	}{
		{"allowed field passes", "due_date", InvoiceSortFields, "due_date"},
		{"unknown field falls back", "secret_column", InvoiceSortFields, "created_at"},
		{"empty falls back", "", InvoiceSortFields, "created_at"},
		{"injection attempt falls back", "number; DELETE FROM invoices", InvoiceSortFields, "created_at"},
		{"receipt amount is sortable", "amount", ReceiptSortFields, "amount"},
		{"customer name is sortable", "name", CustomerSortFields, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.fields, "created_at"))
		})
	}
}
