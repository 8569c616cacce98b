package domain

import "github.com/shopspring/decimal"

// Payment is one entry in a dossier's payment ledger. Entries are immutable
// once created; the only supported edit is removal by ID.
type Payment struct {
	ID            string          `json:"id"`
	MontantPaye   decimal.Decimal `json:"montant_paye"`
	DatePaiement  string          `json:"date_paiement"` // YYYY-MM-DD
	Etape         string          `json:"etape"`
	Notes         *string         `json:"notes"`
	DateCreation  string          `json:"date_creation"`
	ReceiptNumber *string         `json:"receipt_number"` // QUI-<year>-<4 digits>
	ModePaiement  string          `json:"mode_paiement"`
}
