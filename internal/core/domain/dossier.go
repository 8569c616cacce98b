package domain

import "github.com/shopspring/decimal"

// Status is the stored lifecycle status of a dossier.
// It is a closed vocabulary; free-text legacy statuses are folded into it
// at the normalization boundary.
type Status string

const (
	StatusEnCours   Status = "En cours"
	StatusEnAttente Status = "En attente"
	StatusTermine   Status = "Termine"
	StatusBloque    Status = "Bloque"
	StatusArchive   Status = "Archive"
	StatusCorbeille Status = "Corbeille"
)

// DepotStatus tracks a filing (cadastre or domain) state.
type DepotStatus string

const (
	DepotNonDepose      DepotStatus = "Non depose"
	DepotDepose         DepotStatus = "Depose"
	DepotDeposeDeuxFois DepotStatus = "Depose 2eme fois"
)

// Dossier is the canonical record shape every inbound representation is
// normalized into. All fields are always populated after normalization;
// only fields typed as pointers are intentionally nullable.
type Dossier struct {
	ID           string          `json:"id"`
	Nom          string          `json:"nom"`
	Endroit      string          `json:"endroit"`
	DateFinale   string          `json:"date_finale"` // YYYY-MM-DD or empty
	Telephone    string          `json:"telephone"`
	Montant      decimal.Decimal `json:"montant"`
	Encaisse     decimal.Decimal `json:"encaisse"` // derived from the ledger when non-empty
	Acte         bool            `json:"acte"`
	Regul        bool            `json:"regul"`
	Agricole     bool            `json:"agricole"`
	DepotCAD     DepotStatus     `json:"depot_cad"`
	DepotDomain  DepotStatus     `json:"depot_domain"`
	Observations string          `json:"observations"`
	Archive      bool            `json:"archive"`
	DateArchive  string          `json:"date_archive"` // YYYY-MM-DD or empty
	Etat         Status          `json:"etat"`
	Paiements    []Payment       `json:"paiements"`
	Fichiers     []FileMeta      `json:"fichiers"`
	Historique   []HistoryEntry  `json:"historique"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}
