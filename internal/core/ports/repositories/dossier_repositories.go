package repositories

import (
	"context"

	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
)

// DossierReader defines read operations for dossier data
type DossierReader interface {
	// SelectAll retrieves every dossier ordered by creation time ascending.
	SelectAll(ctx context.Context) ([]domain.Dossier, error)

	// SelectByID retrieves a single dossier by its natural key.
	SelectByID(ctx context.Context, id string) (*domain.Dossier, error)

	// Count returns the number of stored dossiers.
	Count(ctx context.Context) (int64, error)
}

// DossierWriter defines write operations for dossier data. Every write is
// a full-row replace computed from a last-read snapshot; conflicting
// concurrent writes resolve last-write-wins in the store.
type DossierWriter interface {
	// Upsert inserts the row or replaces it when the id already exists.
	Upsert(ctx context.Context, row compat.DossierRow) error

	// Update replaces an existing row by id.
	Update(ctx context.Context, id string, row compat.DossierRow) error

	// Delete removes a row permanently.
	Delete(ctx context.Context, id string) error
}

// DossierRepositoryFacade combines all dossier repository interfaces.
// This is a facade for clients that need access to all operations.
type DossierRepositoryFacade interface {
	DossierReader
	DossierWriter
}
