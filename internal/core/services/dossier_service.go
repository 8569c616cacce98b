package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geoman-app/geoman/internal/apperrors"
	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
	portsrepo "github.com/geoman-app/geoman/internal/core/ports/repositories"
	portssvc "github.com/geoman-app/geoman/internal/core/ports/services"
	"github.com/geoman-app/geoman/internal/middleware"
)

// dossierService provides core dossier operations. Every write normalizes
// through the compatibility layer and replaces the full row; concurrent
// edits resolve last-write-wins in the backing store, not here.
type dossierService struct {
	repo portsrepo.DossierRepositoryFacade
}

// NewDossierService creates a new DossierService.
func NewDossierService(repo portsrepo.DossierRepositoryFacade) portssvc.DossierSvcFacade {
	return &dossierService{repo: repo}
}

// Ensure dossierService implements the portssvc.DossierSvcFacade interface
var _ portssvc.DossierSvcFacade = (*dossierService)(nil)

func (s *dossierService) ListDossiers(ctx context.Context, view string) ([]domain.Dossier, error) {
	rows, err := s.repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dossiers: %w", err)
	}
	if view == "" || view == "all" {
		return rows, nil
	}

	filtered := make([]domain.Dossier, 0, len(rows))
	for _, d := range rows {
		if matchesView(d, view) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// matchesView maps a list filter onto the derived classification.
// "impayes" is the outstanding-balance filter, deliberately distinct from
// the partiel display state (it does not require a partial payment).
func matchesView(d domain.Dossier, view string) bool {
	switch view {
	case "actifs":
		return !compat.IsInTrash(d) && !compat.IsArchived(d)
	case "impayes":
		return compat.HasOutstanding(d)
	default:
		return compat.GetDisplayState(d) == compat.DisplayState(view)
	}
}

func (s *dossierService) GetDossier(ctx context.Context, id string) (*domain.Dossier, error) {
	return s.repo.SelectByID(ctx, id)
}

func (s *dossierService) CountDossiers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *dossierService) UpsertDossier(ctx context.Context, raw map[string]any) (*domain.Dossier, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	normalized, ok := compat.NormalizeDossier(raw)
	if !ok {
		return nil, fmt.Errorf("dossier has no identifier: %w", apperrors.ErrValidation)
	}

	existing, err := s.repo.SelectByID(ctx, normalized.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up dossier %s: %w", normalized.ID, err)
	}

	action, details := "Creation", "Nouveau dossier cree"
	if existing != nil {
		action, details = "Modification", "Dossier modifie"
	}

	historyInput := raw["historique"]
	if historyInput == nil && existing != nil {
		historyInput = existing.Historique
	}

	merged := cloneRaw(raw)
	merged["historique"] = compat.AddHistoryEntry(historyInput, action, details)

	row, ok := compat.ToDBPayload(merged, true)
	if !ok {
		return nil, fmt.Errorf("dossier has no identifier: %w", apperrors.ErrValidation)
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to upsert dossier %s: %w", row.ID, err)
	}

	logger.Info("Dossier upserted", slog.String("dossier_id", row.ID), slog.String("action", action))
	result := compat.DossierFromRow(row)
	return &result, nil
}

func (s *dossierService) UpdateDossier(ctx context.Context, id string, patch map[string]any) (*domain.Dossier, error) {
	base := map[string]any{"id": id}
	existing, err := s.repo.SelectByID(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up dossier %s: %w", id, err)
	}
	if existing != nil {
		base = compat.ToRaw(*existing)
	}

	for k, v := range patch {
		base[k] = v
	}
	base["id"] = id

	row, ok := compat.ToDBPayload(base, true)
	if !ok {
		return nil, fmt.Errorf("dossier update is invalid: %w", apperrors.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, row); err != nil {
		return nil, fmt.Errorf("failed to update dossier %s: %w", id, err)
	}

	result := compat.DossierFromRow(row)
	return &result, nil
}

func (s *dossierService) MoveToTrash(ctx context.Context, id string) error {
	var history any
	if existing, err := s.repo.SelectByID(ctx, id); err == nil {
		history = existing.Historique
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up dossier %s: %w", id, err)
	}

	_, err := s.UpdateDossier(ctx, id, map[string]any{
		"etat":         string(domain.StatusCorbeille),
		"archive":      false,
		"date_archive": compat.Today(),
		"historique":   compat.AddHistoryEntry(history, "Suppression", "Deplace vers la corbeille"),
	})
	return err
}

func (s *dossierService) RestoreFromTrash(ctx context.Context, id string) error {
	existing, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up dossier %s: %w", id, err)
	}
	if !compat.IsInTrash(*existing) {
		return nil
	}

	_, err = s.UpdateDossier(ctx, id, map[string]any{
		"etat":       string(domain.StatusEnCours),
		"historique": compat.AddHistoryEntry(existing.Historique, "Restauration", "Restaure depuis la corbeille"),
	})
	return err
}

func (s *dossierService) ToggleArchive(ctx context.Context, id string) error {
	existing, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up dossier %s: %w", id, err)
	}
	if compat.IsInTrash(*existing) {
		return nil
	}

	nextArchive := !existing.Archive
	action, details := "Desarchivage", "Dossier retire des archives"
	etat := domain.StatusEnCours
	patch := map[string]any{
		"archive":      nextArchive,
		"date_archive": nil,
	}
	if nextArchive {
		action, details = "Archivage", "Dossier archive"
		etat = domain.StatusArchive
		patch["date_archive"] = compat.Today()
	}
	patch["etat"] = string(etat)
	patch["historique"] = compat.AddHistoryEntry(existing.Historique, action, details)

	_, err = s.UpdateDossier(ctx, id, patch)
	return err
}

func (s *dossierService) PurgeDossier(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to purge dossier %s: %w", id, err)
	}
	return nil
}

// ImportDossiers is best-effort: a record that fails to persist is logged
// and skipped, so one bad row never sinks the rest of the batch. Callers
// compare the returned count against len(rows) to surface partial imports.
func (s *dossierService) ImportDossiers(ctx context.Context, rows []domain.Dossier) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	imported := 0
	for _, d := range rows {
		if _, err := s.UpsertDossier(ctx, compat.ToRaw(d)); err != nil {
			logger.Warn("Skipping dossier that failed to import",
				slog.String("dossier_id", d.ID), slog.String("error", err.Error()))
			continue
		}
		imported++
	}
	logger.Info("Dossiers imported", slog.Int("imported", imported), slog.Int("received", len(rows)))
	return imported, nil
}

func cloneRaw(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	return out
}
