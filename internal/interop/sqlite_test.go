package interop_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
	"github.com/geoman-app/geoman/internal/interop"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "geoman.db")

	source, ok := compat.NormalizeDossier(map[string]any{
		"id":          "1-2024",
		"nom":         "Jean Dupont",
		"endroit":     "Tunis",
		"date_finale": "2024-09-01",
		"montant":     "1000",
		"paiements": []any{
			map[string]any{"id": "p1", "montant": "400", "date": "2024-02-01"},
		},
		"fichiers": []any{
			map[string]any{"id": "f1", "nom_fichier": "acte.pdf", "chemin_fichier": "/x/acte.pdf", "date_ajout": "2024-02-02"},
		},
		"created_at": "2024-01-01T00:00:00.000Z",
	})
	require.True(t, ok)

	trashed, ok := compat.NormalizeDossier(map[string]any{"id": "2-2024", "etat": "Corbeille"})
	require.True(t, ok)

	require.NoError(t, interop.ExportDB(ctx, path, []domain.Dossier{source, trashed}))

	rows, err := interop.ImportDB(ctx, path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "1-2024", first.ID)
	assert.Equal(t, "Jean Dupont", first.Nom)
	assert.Equal(t, "Tunis", first.Endroit)
	assert.True(t, decimal.NewFromInt(1000).Equal(first.Montant))
	assert.True(t, decimal.NewFromInt(400).Equal(first.Encaisse))
	require.Len(t, first.Paiements, 1)
	require.Len(t, first.Fichiers, 1)
	assert.Equal(t, "acte.pdf", first.Fichiers[0].NomFichier)

	second := rows[1]
	assert.Equal(t, "2-2024", second.ID)
	assert.Equal(t, domain.StatusCorbeille, second.Etat)
}

func TestImportDBMissingTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.db")

	// A fresh file has no dossiers table.
	_, err := interop.ImportDB(ctx, path)
	assert.Error(t, err)
}
