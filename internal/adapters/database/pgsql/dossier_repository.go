package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geoman-app/geoman/internal/apperrors"
	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
	portsrepo "github.com/geoman-app/geoman/internal/core/ports/repositories"
)

type PgxDossierRepository struct {
	pool *pgxpool.Pool
}

// NewPgxDossierRepository creates a new repository for dossier data.
func NewPgxDossierRepository(pool *pgxpool.Pool) portsrepo.DossierRepositoryFacade {
	return &PgxDossierRepository{pool: pool}
}

const dossierColumns = `
	id, nom, endroit, date_finale, telephone, montant::text, encaisse::text,
	acte, regul, agricole, depot_cad, depot_domain, observations, archive,
	date_archive, etat, paiements, fichiers, historique, created_at, updated_at`

// scanDossier reads one row into the loose map shape and runs it through
// the record normalizer, so stored rows and imported rows take the same
// path into the canonical form.
func scanDossier(row pgx.Row) (domain.Dossier, error) {
	var (
		id, nom, endroit, montant, encaisse string
		dateFinale, telephone, observations *string
		acte, regul, agricole, archive      bool
		depotCAD, depotDomain, etat         string
		dateArchive                         *string
		paiements, fichiers, historique     []byte
		createdAt, updatedAt                string
	)
	err := row.Scan(
		&id, &nom, &endroit, &dateFinale, &telephone, &montant, &encaisse,
		&acte, &regul, &agricole, &depotCAD, &depotDomain, &observations,
		&archive, &dateArchive, &etat, &paiements, &fichiers, &historique,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Dossier{}, err
	}

	raw := map[string]any{
		"id":           id,
		"nom":          nom,
		"endroit":      endroit,
		"montant":      montant,
		"encaisse":     encaisse,
		"acte":         acte,
		"regul":        regul,
		"agricole":     agricole,
		"depot_cad":    depotCAD,
		"depot_domain": depotDomain,
		"archive":      archive,
		"etat":         etat,
		"created_at":   createdAt,
		"updated_at":   updatedAt,
	}
	setIf(raw, "date_finale", dateFinale)
	setIf(raw, "telephone", telephone)
	setIf(raw, "observations", observations)
	setIf(raw, "date_archive", dateArchive)
	setJSON(raw, "paiements", paiements)
	setJSON(raw, "fichiers", fichiers)
	setJSON(raw, "historique", historique)

	d, ok := compat.NormalizeDossier(raw)
	if !ok {
		return domain.Dossier{}, fmt.Errorf("stored dossier row has no identifier")
	}
	return d, nil
}

func setIf(raw map[string]any, key string, value *string) {
	if value != nil {
		raw[key] = *value
	}
}

func setJSON(raw map[string]any, key string, data []byte) {
	if len(data) == 0 {
		return
	}
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		raw[key] = v
	}
}

// SelectAll retrieves every dossier ordered by creation time ascending.
func (r *PgxDossierRepository) SelectAll(ctx context.Context) ([]domain.Dossier, error) {
	query := `SELECT ` + dossierColumns + ` FROM dossiers ORDER BY created_at ASC;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dossiers: %w", err)
	}
	defer rows.Close()

	var out []domain.Dossier
	for rows.Next() {
		d, err := scanDossier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dossier row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading dossier rows: %w", err)
	}
	return out, nil
}

// SelectByID retrieves a single dossier by its natural key.
func (r *PgxDossierRepository) SelectByID(ctx context.Context, id string) (*domain.Dossier, error) {
	query := `SELECT ` + dossierColumns + ` FROM dossiers WHERE id = $1;`
	d, err := scanDossier(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select dossier %s: %w", id, err)
	}
	return &d, nil
}

// Count returns the number of stored dossiers.
func (r *PgxDossierRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM dossiers;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dossiers: %w", err)
	}
	return count, nil
}

// rowArgs flattens a backend row into the positional argument list shared
// by Upsert and Update.
func rowArgs(row compat.DossierRow) ([]any, error) {
	paiements, err := json.Marshal(row.Paiements)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal paiements for dossier %s: %w", row.ID, err)
	}
	fichiers, err := json.Marshal(row.Fichiers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fichiers for dossier %s: %w", row.ID, err)
	}
	historique, err := json.Marshal(row.Historique)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal historique for dossier %s: %w", row.ID, err)
	}
	return []any{
		row.ID, row.Nom, row.Endroit, row.DateFinale, row.Telephone,
		row.Montant, row.Encaisse, row.Acte, row.Regul, row.Agricole,
		string(row.DepotCAD), string(row.DepotDomain), row.Observations,
		row.Archive, row.DateArchive, string(row.Etat),
		paiements, fichiers, historique, row.CreatedAt, row.UpdatedAt,
	}, nil
}

// Upsert inserts the row or replaces it when the id already exists.
// created_at is preserved on conflict; everything else is replaced.
func (r *PgxDossierRepository) Upsert(ctx context.Context, row compat.DossierRow) error {
	query := `
		INSERT INTO dossiers (
			id, nom, endroit, date_finale, telephone, montant, encaisse,
			acte, regul, agricole, depot_cad, depot_domain, observations,
			archive, date_archive, etat, paiements, fichiers, historique,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			nom = EXCLUDED.nom,
			endroit = EXCLUDED.endroit,
			date_finale = EXCLUDED.date_finale,
			telephone = EXCLUDED.telephone,
			montant = EXCLUDED.montant,
			encaisse = EXCLUDED.encaisse,
			acte = EXCLUDED.acte,
			regul = EXCLUDED.regul,
			agricole = EXCLUDED.agricole,
			depot_cad = EXCLUDED.depot_cad,
			depot_domain = EXCLUDED.depot_domain,
			observations = EXCLUDED.observations,
			archive = EXCLUDED.archive,
			date_archive = EXCLUDED.date_archive,
			etat = EXCLUDED.etat,
			paiements = EXCLUDED.paiements,
			fichiers = EXCLUDED.fichiers,
			historique = EXCLUDED.historique,
			updated_at = EXCLUDED.updated_at;
	`
	args, err := rowArgs(row)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert dossier %s: %w", row.ID, err)
	}
	return nil
}

// Update replaces an existing row by id.
func (r *PgxDossierRepository) Update(ctx context.Context, id string, row compat.DossierRow) error {
	query := `
		UPDATE dossiers SET
			nom = $2, endroit = $3, date_finale = $4, telephone = $5,
			montant = $6, encaisse = $7, acte = $8, regul = $9,
			agricole = $10, depot_cad = $11, depot_domain = $12,
			observations = $13, archive = $14, date_archive = $15,
			etat = $16, paiements = $17, fichiers = $18, historique = $19,
			updated_at = $20
		WHERE id = $1;
	`
	args, err := rowArgs(row)
	if err != nil {
		return err
	}
	args[0] = id
	args = append(args[:19], row.UpdatedAt) // drop created_at, it is never rewritten
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update dossier %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a row permanently.
func (r *PgxDossierRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dossiers WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dossier %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
