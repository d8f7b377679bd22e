package document

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusPaid, true},
		{StatusDraft, StatusOverdue, true},
		{StatusDraft, StatusCancelled, true},
		{StatusSent, StatusPaid, true},
		{StatusSent, StatusOverdue, true},
		{StatusSent, StatusDraft, false},
		{StatusOverdue, StatusPaid, true},
		{StatusOverdue, StatusSent, false},
		{StatusPaid, StatusCancelled, false},
		{StatusPaid, StatusOverdue, false},
		{StatusCancelled, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsOverdueCandidate(t *testing.T) {
	assert.True(t, StatusDraft.IsOverdueCandidate())
	assert.True(t, StatusSent.IsOverdueCandidate())
	assert.False(t, StatusPaid.IsOverdueCandidate())
	assert.False(t, StatusOverdue.IsOverdueCandidate())
	assert.False(t, StatusCancelled.IsOverdueCandidate())
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"valid", "2025-03-14", false},
		{"leap day", "2024-02-29", false},
		{"not a leap year", "2025-02-29", true},
		{"wrong format", "14-03-2025", true},
		{"missing padding", "2025-3-4", true},
		{"month out of range", "2025-13-01", true},
		{"empty", "", true},
		{"garbage", "besok", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLineItem(t *testing.T) {
	t.Run("computes amount", func(t *testing.T) {
		item, err := NewLineItem("Jasa desain", decimal.NewFromInt(3), decimal.NewFromInt(150000))
		require.NoError(t, err)
		assert.True(t, item.Amount.Equal(decimal.NewFromInt(450000)))
	})

	t.Run("fractional quantity", func(t *testing.T) {
		item, err := NewLineItem("Konsultasi", decimal.NewFromFloat(1.5), decimal.NewFromInt(200000))
		require.NoError(t, err)
		assert.True(t, item.Amount.Equal(decimal.NewFromInt(300000)))
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewLineItem("", decimal.NewFromInt(1), decimal.NewFromInt(100))
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewLineItem("Barang", decimal.Zero, decimal.NewFromInt(100))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewLineItem("Barang", decimal.NewFromInt(1), decimal.NewFromInt(-100))
		assert.Error(t, err)
	})
}

func TestLineItems_Total(t *testing.T) {
	a, err := NewLineItem("A", decimal.NewFromInt(2), decimal.NewFromInt(1000))
	require.NoError(t, err)
	b, err := NewLineItem("B", decimal.NewFromInt(1), decimal.NewFromInt(2500))
	require.NoError(t, err)

	items := LineItems{a, b}
	assert.True(t, items.Total().Equal(decimal.NewFromInt(4500)))
	assert.True(t, LineItems{}.Total().IsZero())
}
