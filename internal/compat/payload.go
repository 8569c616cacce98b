package compat

import (
	"github.com/shopspring/decimal"

	"github.com/geoman-app/geoman/internal/core/domain"
)

// DossierRow is the flat backend-table projection of a canonical dossier.
// Optional text fields become explicit nulls at this boundary only; the
// nested sequences stay structured within the single row.
type DossierRow struct {
	ID           string                `json:"id"`
	Nom          string                `json:"nom"`
	Endroit      string                `json:"endroit"`
	DateFinale   *string               `json:"date_finale"`
	Telephone    *string               `json:"telephone"`
	Montant      decimal.Decimal       `json:"montant"`
	Encaisse     decimal.Decimal       `json:"encaisse"`
	Acte         bool                  `json:"acte"`
	Regul        bool                  `json:"regul"`
	Agricole     bool                  `json:"agricole"`
	DepotCAD     domain.DepotStatus    `json:"depot_cad"`
	DepotDomain  domain.DepotStatus    `json:"depot_domain"`
	Observations *string               `json:"observations"`
	Archive      bool                  `json:"archive"`
	DateArchive  *string               `json:"date_archive"`
	Etat         domain.Status         `json:"etat"`
	Paiements    []domain.Payment      `json:"paiements"`
	Fichiers     []domain.FileMeta     `json:"fichiers"`
	Historique   []domain.HistoryEntry `json:"historique"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// RowFromDossier projects an already-canonical dossier to its backend row.
// updated_at is refreshed unless the caller opts out.
func RowFromDossier(d domain.Dossier, touchUpdated bool) DossierRow {
	updated := defaultStr(d.UpdatedAt, nowISO())
	if touchUpdated {
		updated = nowISO()
	}
	return DossierRow{
		ID:           d.ID,
		Nom:          d.Nom,
		Endroit:      d.Endroit,
		DateFinale:   optional(d.DateFinale),
		Telephone:    optional(d.Telephone),
		Montant:      d.Montant,
		Encaisse:     d.Encaisse,
		Acte:         d.Acte,
		Regul:        d.Regul,
		Agricole:     d.Agricole,
		DepotCAD:     d.DepotCAD,
		DepotDomain:  d.DepotDomain,
		Observations: optional(d.Observations),
		Archive:      d.Archive,
		DateArchive:  optional(d.DateArchive),
		Etat:         d.Etat,
		Paiements:    d.Paiements,
		Fichiers:     d.Fichiers,
		Historique:   d.Historique,
		CreatedAt:    defaultStr(d.CreatedAt, nowISO()),
		UpdatedAt:    updated,
	}
}

// DossierFromRow maps a backend row back to the canonical shape, turning
// explicit nulls into the canonical empty strings.
func DossierFromRow(row DossierRow) domain.Dossier {
	return domain.Dossier{
		ID:           row.ID,
		Nom:          row.Nom,
		Endroit:      row.Endroit,
		DateFinale:   deref(row.DateFinale),
		Telephone:    deref(row.Telephone),
		Montant:      row.Montant,
		Encaisse:     row.Encaisse,
		Acte:         row.Acte,
		Regul:        row.Regul,
		Agricole:     row.Agricole,
		DepotCAD:     row.DepotCAD,
		DepotDomain:  row.DepotDomain,
		Observations: deref(row.Observations),
		Archive:      row.Archive,
		DateArchive:  deref(row.DateArchive),
		Etat:         row.Etat,
		Paiements:    row.Paiements,
		Fichiers:     row.Fichiers,
		Historique:   row.Historique,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToDBPayload normalizes raw input and projects it to the backend row
// shape. The false result mirrors NormalizeDossier's missing-identifier
// contract; it never panics or errors on malformed entries.
func ToDBPayload(raw map[string]any, touchUpdated bool) (DossierRow, bool) {
	d, ok := NormalizeDossier(raw)
	if !ok {
		return DossierRow{}, false
	}
	return RowFromDossier(d, touchUpdated), true
}
