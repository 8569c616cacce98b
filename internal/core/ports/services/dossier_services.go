package services

import (
	"context"

	"github.com/geoman-app/geoman/internal/core/domain"
)

// DossierReaderSvc defines read operations for dossier data
type DossierReaderSvc interface {
	// ListDossiers retrieves dossiers, optionally filtered by a display
	// state view ("corbeille", "archive", "retard", "echeance", "partiel",
	// "impayes", ...). An empty view returns everything.
	ListDossiers(ctx context.Context, view string) ([]domain.Dossier, error)

	// GetDossier retrieves a single dossier by id.
	GetDossier(ctx context.Context, id string) (*domain.Dossier, error)

	// CountDossiers returns the number of stored dossiers.
	CountDossiers(ctx context.Context) (int64, error)
}

// DossierWriterSvc defines write operations for dossier data
type DossierWriterSvc interface {
	// UpsertDossier normalizes raw input and persists it, appending a
	// Creation or Modification history entry.
	UpsertDossier(ctx context.Context, raw map[string]any) (*domain.Dossier, error)

	// UpdateDossier merges a patch onto the last-read snapshot and
	// persists the full replacement row.
	UpdateDossier(ctx context.Context, id string, patch map[string]any) (*domain.Dossier, error)

	// MoveToTrash soft deletes a dossier.
	MoveToTrash(ctx context.Context, id string) error

	// RestoreFromTrash returns a trashed dossier to En cours. A no-op for
	// dossiers that are not in the trash.
	RestoreFromTrash(ctx context.Context, id string) error

	// ToggleArchive flips the archive flag. A no-op for trashed dossiers.
	ToggleArchive(ctx context.Context, id string) error

	// PurgeDossier deletes a dossier permanently.
	PurgeDossier(ctx context.Context, id string) error

	// ImportDossiers upserts a batch of already-canonical records,
	// returning how many were persisted. Records that fail to persist are
	// skipped rather than aborting the batch.
	ImportDossiers(ctx context.Context, rows []domain.Dossier) (int, error)
}

// DossierSvcFacade combines all dossier service interfaces.
// This is a facade for clients that need access to all operations.
type DossierSvcFacade interface {
	DossierReaderSvc
	DossierWriterSvc
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Dossier DossierSvcFacade
}
