package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invois/backend/internal/domain/shared"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	invoice, err := NewInvoice(
		uuid.New(), uuid.New(),
		Party{Name: "PT Maju Jaya", Email: "finance@majujaya.co.id"},
		"2025-01-10", "2025-02-10",
		decimal.NewFromInt(11), "",
	)
	require.NoError(t, err)
	return invoice
}

func TestNewInvoice(t *testing.T) {
	t.Run("starts as draft without number", func(t *testing.T) {
		invoice := newTestInvoice(t)
		assert.Equal(t, StatusDraft, invoice.Status)
		assert.Empty(t, invoice.Number)
		assert.True(t, invoice.IsActive())
		assert.Len(t, invoice.GetDomainEvents(), 1)
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), Party{Name: "X"}, "2025-02-10", "2025-01-10", decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("rejects missing customer name", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), Party{}, "2025-01-10", "2025-02-10", decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("rejects bad dates", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), Party{Name: "X"}, "10/01/2025", "2025-02-10", decimal.Zero, "")
		assert.Error(t, err)
	})
}

func TestInvoice_AssignNumber(t *testing.T) {
	invoice := newTestInvoice(t)

	require.NoError(t, invoice.AssignNumber("INV-2025-0001"))
	assert.Equal(t, "INV-2025-0001", invoice.Number)

	// write-once
	assert.Error(t, invoice.AssignNumber("INV-2025-0002"))
	assert.Equal(t, "INV-2025-0001", invoice.Number)
}

func TestInvoice_SetItems(t *testing.T) {
	invoice := newTestInvoice(t)

	item, err := NewLineItem("Jasa desain logo", decimal.NewFromInt(1), decimal.NewFromInt(2000000))
	require.NoError(t, err)

	require.NoError(t, invoice.SetItems(LineItems{item}))

	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(2000000)))
	// 11% tax
	assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromInt(220000)), "got %s", invoice.TaxAmount)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(2220000)))
}

func TestInvoice_StatusFlow(t *testing.T) {
	t.Run("draft to sent to paid", func(t *testing.T) {
		invoice := newTestInvoice(t)

		require.NoError(t, invoice.MarkSent())
		assert.Equal(t, StatusSent, invoice.Status)
		assert.NotNil(t, invoice.SentAt)

		require.NoError(t, invoice.MarkPaid())
		assert.Equal(t, StatusPaid, invoice.Status)
		assert.NotNil(t, invoice.PaidAt)
	})

	t.Run("paid is terminal", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.MarkPaid())

		assert.Error(t, invoice.MarkSent())
		assert.Error(t, invoice.Cancel())
	})

	t.Run("finalized invoice cannot be edited", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.MarkPaid())

		err := invoice.SetItems(LineItems{})
		assert.Error(t, err)
	})
}

func TestInvoice_MarkOverdue(t *testing.T) {
	t.Run("sent invoice past due", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.MarkSent())

		require.NoError(t, invoice.MarkOverdue("2025-02-11"))
		assert.Equal(t, StatusOverdue, invoice.Status)
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		invoice := newTestInvoice(t)
		assert.Error(t, invoice.MarkOverdue("2025-02-10"))
	})

	t.Run("paid invoice never goes overdue", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.MarkPaid())
		assert.Error(t, invoice.MarkOverdue("2025-02-11"))

		assert.Equal(t, StatusPaid, invoice.Status)
	})

	t.Run("overdue invoice can still be paid", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.MarkSent())
		require.NoError(t, invoice.MarkOverdue("2025-02-11"))

		require.NoError(t, invoice.MarkPaid())
		assert.Equal(t, StatusPaid, invoice.Status)
	})
}

func TestInvoice_TrashLifecycle(t *testing.T) {
	invoice := newTestInvoice(t)

	require.NoError(t, invoice.Delete())
	assert.True(t, invoice.IsDeleted())
	assert.NotNil(t, invoice.DeletedAt)

	// no edits or transitions while trashed
	assert.Error(t, invoice.MarkSent())
	assert.Error(t, invoice.SetItems(LineItems{}))
	assert.Error(t, invoice.Delete())

	require.NoError(t, invoice.RestoreFromTrash())
	assert.True(t, invoice.IsActive())
	assert.Nil(t, invoice.DeletedAt)

	// restoring an active invoice fails with the dedicated error
	err := invoice.RestoreFromTrash()
	assert.Equal(t, shared.ErrNotDeleted, err)
}

func TestReceipt(t *testing.T) {
	orgID := uuid.New()

	t.Run("valid receipt", func(t *testing.T) {
		receipt, err := NewReceipt(orgID, uuid.New(), Party{Name: "Budi Santoso"}, "2025-03-01", PaymentTransfer, decimal.NewFromInt(500000), "Pelunasan INV-2025-0003", nil)
		require.NoError(t, err)
		assert.Empty(t, receipt.Number)
		assert.True(t, receipt.IsActive())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewReceipt(orgID, uuid.New(), Party{Name: "Budi"}, "2025-03-01", PaymentCash, decimal.Zero, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewReceipt(orgID, uuid.New(), Party{Name: "Budi"}, "2025-03-01", PaymentMethod("cek"), decimal.NewFromInt(100), "", nil)
		assert.Error(t, err)
	})
}
