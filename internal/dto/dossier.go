package dto

import "github.com/geoman-app/geoman/internal/core/domain"

// ListDossiersResponse wraps a dossier listing.
type ListDossiersResponse struct {
	Dossiers []domain.Dossier `json:"dossiers"`
	Total    int              `json:"total"`
}

// StatsResponse carries store-level counters.
type StatsResponse struct {
	Dossiers int64 `json:"dossiers"`
}

// ImportResultResponse reports the outcome of a best-effort import.
// Received counts records that survived shape decoding; records with no
// identifier were already dropped before this count.
type ImportResultResponse struct {
	Received int `json:"received"`
	Imported int `json:"imported"`
}
