// Package interop reads and writes the desktop application's SQLite file
// format. Only shape conversion lives in the compatibility layer; this
// package owns the actual database file access.
package interop

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
)

const desktopSchema = `
CREATE TABLE IF NOT EXISTS dossiers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	numero_dossier TEXT NOT NULL UNIQUE,
	nom_prenom TEXT NOT NULL,
	endroit TEXT NOT NULL,
	date_finalisation TEXT,
	telephone TEXT,
	montant REAL,
	acte INTEGER DEFAULT 0,
	regul INTEGER DEFAULT 0,
	agricole INTEGER DEFAULT 0,
	depot_cad TEXT DEFAULT 'Non depose',
	depot_domain TEXT DEFAULT 'Non depose',
	observations TEXT,
	date_creation TEXT NOT NULL,
	date_modification TEXT,
	est_archive INTEGER DEFAULT 0,
	date_archive TEXT,
	statut TEXT DEFAULT 'En cours',
	est_supprime INTEGER DEFAULT 0,
	date_suppression TEXT
);

CREATE TABLE IF NOT EXISTS fichiers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dossier_id INTEGER NOT NULL,
	nom_fichier TEXT NOT NULL,
	chemin_fichier TEXT NOT NULL,
	date_ajout TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS historique (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dossier_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	details TEXT,
	date_action TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dossier_id INTEGER NOT NULL,
	numero_dossier TEXT NOT NULL,
	nom_prenom TEXT NOT NULL,
	date_acces TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS paiements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dossier_id INTEGER NOT NULL,
	montant_paye REAL NOT NULL,
	date_paiement TEXT NOT NULL,
	etape TEXT DEFAULT 'Acompte',
	notes TEXT,
	date_creation TEXT NOT NULL,
	receipt_number TEXT,
	mode_paiement TEXT DEFAULT 'Especes'
);

CREATE TABLE IF NOT EXISTS schema_version (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	version INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);
`

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = ? AND name = ?`, "table", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// queryRows reads a whole table into loose maps, keeping whatever column
// types the file carries; the normalizer coerces from there.
func queryRows(ctx context.Context, db *sql.DB, query string) ([]any, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, col := range cols {
			m[col] = values[i]
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ImportDB reads a desktop database file and returns its canonical
// records. The dossiers table is required; payments and files are
// optional, matching older exports.
func ImportDB(ctx context.Context, path string) ([]domain.Dossier, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open desktop database %s: %w", path, err)
	}
	defer db.Close()

	ok, err := tableExists(ctx, db, "dossiers")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect desktop database: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("desktop database has no dossiers table")
	}

	dossiers, err := queryRows(ctx, db, `SELECT * FROM dossiers`)
	if err != nil {
		return nil, fmt.Errorf("failed to read dossiers: %w", err)
	}

	var paiements, fichiers []any
	if ok, _ := tableExists(ctx, db, "paiements"); ok {
		if paiements, err = queryRows(ctx, db, `SELECT * FROM paiements`); err != nil {
			return nil, fmt.Errorf("failed to read paiements: %w", err)
		}
	}
	if ok, _ := tableExists(ctx, db, "fichiers"); ok {
		if fichiers, err = queryRows(ctx, db, `SELECT * FROM fichiers`); err != nil {
			return nil, fmt.Errorf("failed to read fichiers: %w", err)
		}
	}

	return compat.BundleToRows(map[string]any{
		"dossiers":  dossiers,
		"paiements": paiements,
		"fichiers":  fichiers,
	}), nil
}

// ExportDB writes canonical records to a new desktop database file using
// the v2 schema.
func ExportDB(ctx context.Context, path string, rows []domain.Dossier) error {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return fmt.Errorf("failed to create desktop database %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, desktopSchema); err != nil {
		return fmt.Errorf("failed to create desktop schema: %w", err)
	}

	bundle := compat.RowsToDesktopBundle(rows)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, d := range bundle.Dossiers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dossiers (
				id, numero_dossier, nom_prenom, endroit, date_finalisation, telephone, montant,
				acte, regul, agricole, depot_cad, depot_domain, observations, date_creation,
				date_modification, est_archive, date_archive, statut, est_supprime, date_suppression
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.NumeroDossier, d.NomPrenom, d.Endroit, d.DateFinalisation, d.Telephone, d.Montant,
			d.Acte, d.Regul, d.Agricole, d.DepotCAD, d.DepotDomain, d.Observations, d.DateCreation,
			d.DateModification, d.EstArchive, d.DateArchive, d.Statut, d.EstSupprime, d.DateSuppression,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dossier %s: %w", d.NumeroDossier, err)
		}
	}

	for _, p := range bundle.Paiements {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO paiements (
				id, dossier_id, montant_paye, date_paiement, etape, notes, date_creation, receipt_number, mode_paiement
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.DossierID, p.MontantPaye, p.DatePaiement, p.Etape, p.Notes, p.DateCreation, p.ReceiptNumber, p.ModePaiement,
		)
		if err != nil {
			return fmt.Errorf("failed to insert paiement %d: %w", p.ID, err)
		}
	}

	for _, f := range bundle.Fichiers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO fichiers (
				id, dossier_id, nom_fichier, chemin_fichier, date_ajout
			) VALUES (?, ?, ?, ?, ?)`,
			f.ID, f.DossierID, f.NomFichier, f.CheminFichier, f.DateAjout,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fichier %d: %w", f.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO schema_version (id, version, updated_at) VALUES (1, ?, ?)`,
		2, time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to stamp schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit desktop export: %w", err)
	}
	return nil
}
