package document

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "nol rupiah"},
		{1, "satu rupiah"},
		{11, "sebelas rupiah"},
		{17, "tujuh belas rupiah"},
		{20, "dua puluh rupiah"},
		{45, "empat puluh lima rupiah"},
		{100, "seratus rupiah"},
		{150, "seratus lima puluh rupiah"},
		{500, "lima ratus rupiah"},
		{1000, "seribu rupiah"},
		{1500, "seribu lima ratus rupiah"},
		{25000, "dua puluh lima ribu rupiah"},
		{2220000, "dua juta dua ratus dua puluh ribu rupiah"},
		{1000000000, "satu miliar rupiah"},
		{1234567, "satu juta dua ratus tiga puluh empat ribu lima ratus enam puluh tujuh rupiah"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, AmountInWords(decimal.NewFromInt(tt.amount)))
		})
	}
}

func TestAmountInWords_Cents(t *testing.T) {
	assert.Equal(t, "seribu rupiah lima puluh sen", AmountInWords(decimal.NewFromFloat(1000.50)))
}

func TestAmountInWords_Negative(t *testing.T) {
	assert.Equal(t, "minus lima ribu rupiah", AmountInWords(decimal.NewFromInt(-5000)))
}
