package compat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/geoman-app/geoman/internal/core/domain"
)

func TestNormalizePaymentDefaults(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "abc123")

	p := NormalizePayment(map[string]any{"montant": "150,50"})

	assert.True(t, decimal.NewFromFloat(150.5).Equal(p.MontantPaye))
	assert.Equal(t, "2024-06-15", p.DatePaiement)
	assert.Equal(t, "Acompte", p.Etape)
	assert.Equal(t, "Especes", p.ModePaiement)
	assert.Nil(t, p.Notes)
	assert.Nil(t, p.ReceiptNumber)
	assert.Equal(t, "2024-06-15-150.5-abc123", p.ID)
	assert.NotEmpty(t, p.DateCreation)
}

func TestNormalizePaymentKeepsExistingID(t *testing.T) {
	p := NormalizePayment(map[string]any{
		"id":           "keep-me",
		"montant_paye": 100,
		"date":         "2024-01-10",
	})
	assert.Equal(t, "keep-me", p.ID)
	assert.Equal(t, "2024-01-10", p.DatePaiement)
}

func TestNormalizePaymentsStableSort(t *testing.T) {
	pinEntryTag(t, "t")
	first := map[string]any{"id": "a", "montant": 1, "date": "2024-02-01"}
	second := map[string]any{"id": "b", "montant": 2, "date": "2024-01-01"}
	third := map[string]any{"id": "c", "montant": 3, "date": "2024-02-01"}

	out := NormalizePayments([]any{first, second, third})

	assert.Len(t, out, 3)
	assert.Equal(t, "b", out[0].ID)
	// Equal dates keep input order.
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestSumPayments(t *testing.T) {
	t.Run("ledger is authoritative", func(t *testing.T) {
		sum := SumPayments([]any{
			map[string]any{"montant": "100"},
			map[string]any{"montant_paye": 50.5},
		}, "999")
		assert.True(t, decimal.NewFromFloat(150.5).Equal(sum))
	})

	t.Run("empty ledger falls back", func(t *testing.T) {
		sum := SumPayments([]any{}, "250,75")
		assert.True(t, decimal.NewFromFloat(250.75).Equal(sum))
	})

	t.Run("nothing at all is zero", func(t *testing.T) {
		assert.True(t, SumPayments(nil, nil).IsZero())
	})
}

func TestNextReceiptNumber(t *testing.T) {
	pinClock(t, midJune2024)

	receipt := func(s string) map[string]any {
		return map[string]any{"montant": 1, "receipt_number": s}
	}

	t.Run("empty ledger starts at one", func(t *testing.T) {
		assert.Equal(t, "QUI-2024-0001", NextReceiptNumber(nil))
	})

	t.Run("continues from current-year max", func(t *testing.T) {
		got := NextReceiptNumber([]any{
			receipt("QUI-2024-0003"),
			receipt("qui-2024-0002"),
			receipt("QUI-2023-0099"),
			receipt("QUI-24-1"),
			receipt("garbage"),
		})
		assert.Equal(t, "QUI-2024-0004", got)
	})

	t.Run("prior-year receipts restart the sequence", func(t *testing.T) {
		got := NextReceiptNumber([]any{receipt("QUI-2023-0150")})
		assert.Equal(t, "QUI-2024-0001", got)
	})
}

func TestNormalizePaymentTypedInput(t *testing.T) {
	pinClock(t, midJune2024)
	empty := ""
	p := NormalizePayment(domain.Payment{
		ID:          "p1",
		MontantPaye: decimal.NewFromInt(80),
		Notes:       &empty,
	})
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "2024-06-15", p.DatePaiement)
	assert.Nil(t, p.Notes)
	assert.Equal(t, "Acompte", p.Etape)
}
