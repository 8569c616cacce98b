package compat

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/geoman-app/geoman/internal/core/domain"
)

const (
	defaultStage = "Acompte"
	defaultMode  = "Especes"
)

var receiptPattern = regexp.MustCompile(`^(?i:QUI)-(\d{4})-(\d{4})$`)

func paymentID(date string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s-%s-%s", date, amount.String(), entryTag())
}

// NormalizePayment fills every default on one ledger entry. An entry that
// already carries an id keeps it; ids are synthesized exactly once.
func NormalizePayment(raw any) domain.Payment {
	switch t := raw.(type) {
	case domain.Payment:
		p := t
		p.DatePaiement = defaultStr(strings.TrimSpace(p.DatePaiement), Today())
		p.Etape = defaultStr(strings.TrimSpace(p.Etape), defaultStage)
		p.ModePaiement = defaultStr(strings.TrimSpace(p.ModePaiement), defaultMode)
		if p.Notes != nil {
			p.Notes = optional(strings.TrimSpace(*p.Notes))
		}
		if p.ReceiptNumber != nil {
			p.ReceiptNumber = optional(strings.TrimSpace(*p.ReceiptNumber))
		}
		p.DateCreation = defaultStr(strings.TrimSpace(p.DateCreation), nowISO())
		if strings.TrimSpace(p.ID) == "" {
			p.ID = paymentID(p.DatePaiement, p.MontantPaye)
		}
		return p
	case map[string]any:
		amount := ToDecimal(rawAlias(t, "montant_paye", "montant"), decimal.Zero)
		date := defaultStr(strAlias(t, "date_paiement", "date"), Today())
		p := domain.Payment{
			MontantPaye:   amount,
			DatePaiement:  date,
			Etape:         defaultStr(strAlias(t, "etape", "stage"), defaultStage),
			Notes:         optional(strAlias(t, "notes", "note")),
			DateCreation:  defaultStr(strAlias(t, "date_creation", "created_at"), nowISO()),
			ReceiptNumber: optional(strAlias(t, "receipt_number", "receipt")),
			ModePaiement:  defaultStr(strAlias(t, "mode_paiement", "mode"), defaultMode),
		}
		p.ID = Stringify(t["id"])
		if p.ID == "" {
			p.ID = paymentID(date, amount)
		}
		return p
	}
	return NormalizePayment(map[string]any{})
}

// NormalizePayments canonicalizes an arbitrary input sequence and sorts it
// ascending by payment date. The sort is stable, so entries sharing a date
// keep their input order.
func NormalizePayments(raw any) []domain.Payment {
	var out []domain.Payment
	switch t := raw.(type) {
	case []domain.Payment:
		out = make([]domain.Payment, 0, len(t))
		for _, p := range t {
			out = append(out, NormalizePayment(p))
		}
	case []any:
		out = make([]domain.Payment, 0, len(t))
		for _, p := range t {
			out = append(out, NormalizePayment(p))
		}
	case []map[string]any:
		out = make([]domain.Payment, 0, len(t))
		for _, p := range t {
			out = append(out, NormalizePayment(p))
		}
	default:
		return []domain.Payment{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DatePaiement < out[j].DatePaiement
	})
	return out
}

// SumPayments is the single source of truth for the collected amount: the
// ledger sum when any entries exist, otherwise the coerced fallback.
func SumPayments(raw any, fallback any) decimal.Decimal {
	list := NormalizePayments(raw)
	if len(list) == 0 {
		return ToDecimal(fallback, decimal.Zero)
	}
	sum := decimal.Zero
	for _, p := range list {
		sum = sum.Add(p.MontantPaye)
	}
	return sum
}

// NextReceiptNumber derives the next QUI-<year>-<seq> receipt for the
// current year, scanning this ledger only. The sequence restarts every
// calendar year; malformed or prior-year receipts are ignored.
func NextReceiptNumber(raw any) string {
	year := timeNow().Year()
	maxSeq := 0
	for _, p := range NormalizePayments(raw) {
		if p.ReceiptNumber == nil {
			continue
		}
		m := receiptPattern.FindStringSubmatch(strings.TrimSpace(*p.ReceiptNumber))
		if m == nil {
			continue
		}
		if y, _ := strconv.Atoi(m[1]); y != year {
			continue
		}
		if n, _ := strconv.Atoi(m[2]); n > maxSeq {
			maxSeq = n
		}
	}
	return fmt.Sprintf("QUI-%d-%04d", year, maxSeq+1)
}
