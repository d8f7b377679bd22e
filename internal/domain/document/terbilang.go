package document

import (
	"strings"

	"github.com/shopspring/decimal"
)

var terbilangDigits = []string{
	"", "satu", "dua", "tiga", "empat", "lima",
	"enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas",
}

// AmountInWords spells out a rupiah amount in Indonesian, as printed on
// receipts: 2220000 -> "dua juta dua ratus dua puluh ribu rupiah".
// Cents are appended as "... sen" when present.
func AmountInWords(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	amount = amount.Abs()

	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var b strings.Builder
	if negative {
		b.WriteString("minus ")
	}
	if whole == 0 {
		b.WriteString("nol")
	} else {
		b.WriteString(spellNumber(whole))
	}
	b.WriteString(" rupiah")

	if cents > 0 {
		b.WriteString(" ")
		b.WriteString(spellNumber(cents))
		b.WriteString(" sen")
	}

	return b.String()
}

func spellNumber(n int64) string {
	switch {
	case n < 12:
		return terbilangDigits[n]
	case n < 20:
		return spellNumber(n-10) + " belas"
	case n < 100:
		return joinSpelled(spellNumber(n/10)+" puluh", n%10)
	case n < 200:
		return joinSpelled("seratus", n-100)
	case n < 1_000:
		return joinSpelled(spellNumber(n/100)+" ratus", n%100)
	case n < 2_000:
		return joinSpelled("seribu", n-1_000)
	case n < 1_000_000:
		return joinSpelled(spellNumber(n/1_000)+" ribu", n%1_000)
	case n < 1_000_000_000:
		return joinSpelled(spellNumber(n/1_000_000)+" juta", n%1_000_000)
	case n < 1_000_000_000_000:
		return joinSpelled(spellNumber(n/1_000_000_000)+" miliar", n%1_000_000_000)
	default:
		return joinSpelled(spellNumber(n/1_000_000_000_000)+" triliun", n%1_000_000_000_000)
	}
}

func joinSpelled(head string, rest int64) string {
	if rest == 0 {
		return head
	}
	return head + " " + spellNumber(rest)
}
