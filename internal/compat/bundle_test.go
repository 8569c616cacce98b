package compat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoman-app/geoman/internal/core/domain"
)

func sampleRows(t *testing.T) []domain.Dossier {
	t.Helper()
	first, ok := NormalizeDossier(map[string]any{
		"id":          "1-2024",
		"nom":         "Jean Dupont",
		"endroit":     "Tunis",
		"date_finale": "2024-09-01",
		"montant":     "1000",
		"paiements": []any{
			map[string]any{"id": "p1", "montant": "400", "date": "2024-02-01", "receipt_number": "QUI-2024-0001"},
			map[string]any{"id": "p2", "montant": "100", "date": "2024-03-01"},
		},
		"fichiers": []any{
			map[string]any{"id": "f1", "nom_fichier": "acte.pdf", "chemin_fichier": "/x/acte.pdf", "date_ajout": "2024-02-02"},
		},
		"created_at": "2024-01-01T00:00:00.000Z",
		"updated_at": "2024-03-01T00:00:00.000Z",
	})
	require.True(t, ok)

	second, ok := NormalizeDossier(map[string]any{
		"id":      "2-2024",
		"nom":     "Marie Martin",
		"etat":    "Corbeille",
		"montant": "0",
	})
	require.True(t, ok)

	return []domain.Dossier{first, second}
}

func TestRowsToDesktopBundle(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag")

	bundle := RowsToDesktopBundle(sampleRows(t))

	assert.Equal(t, BundleSchema, bundle.Schema)
	require.Len(t, bundle.Dossiers, 2)
	require.Len(t, bundle.Paiements, 2)
	require.Len(t, bundle.Fichiers, 1)

	first := bundle.Dossiers[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "1-2024", first.NumeroDossier)
	assert.Equal(t, "Jean Dupont", first.NomPrenom)
	assert.Equal(t, "Tunis", first.Endroit)
	require.NotNil(t, first.Montant)
	assert.Equal(t, float64(1000), *first.Montant)
	assert.Equal(t, 0, first.EstSupprime)
	assert.Equal(t, "2024-01-01 00:00:00", first.DateCreation)

	second := bundle.Dossiers[1]
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 1, second.EstSupprime)
	assert.NotNil(t, second.DateSuppression)
	assert.Nil(t, second.Montant)
	assert.Equal(t, "-", second.Endroit)

	assert.Equal(t, int64(1), bundle.Paiements[0].ID)
	assert.Equal(t, int64(1), bundle.Paiements[0].DossierID)
	assert.Equal(t, int64(2), bundle.Paiements[1].ID)
	assert.Equal(t, "QUI-2024-0001", *bundle.Paiements[0].ReceiptNumber)

	assert.Equal(t, int64(1), bundle.Fichiers[0].ID)
	assert.Equal(t, int64(1), bundle.Fichiers[0].DossierID)
}

func TestBundleToRowsShapes(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag")

	t.Run("nil payload", func(t *testing.T) {
		assert.Empty(t, BundleToRows(nil))
	})

	t.Run("bare array", func(t *testing.T) {
		rows := BundleToRows([]any{
			map[string]any{"id": "1-2024", "nom": "A"},
			map[string]any{"nom": "no id, dropped"},
		})
		require.Len(t, rows, 1)
		assert.Equal(t, "1-2024", rows[0].ID)
	})

	t.Run("rows wrapper", func(t *testing.T) {
		rows := BundleToRows(map[string]any{
			"rows": []any{map[string]any{"id": "2-2024"}},
		})
		require.Len(t, rows, 1)
		assert.Equal(t, "2-2024", rows[0].ID)
	})

	t.Run("flattened tables", func(t *testing.T) {
		rows := BundleToRows(map[string]any{
			"dossiers": []any{
				map[string]any{
					"id":             float64(1),
					"numero_dossier": "3-2024",
					"nom_prenom":     "Jean",
					"est_supprime":   float64(0),
					"statut":         "En attente",
				},
			},
			"paiements": []any{
				map[string]any{"dossier_id": float64(1), "montant_paye": float64(250), "date_paiement": "2024-04-01"},
			},
			"fichiers": []any{
				map[string]any{"dossier_id": float64(1), "nom_fichier": "plan.pdf", "chemin_fichier": "/p/plan.pdf", "date_ajout": "2024-04-02"},
			},
		})
		require.Len(t, rows, 1)
		d := rows[0]
		assert.Equal(t, "3-2024", d.ID)
		assert.Equal(t, "Jean", d.Nom)
		assert.Equal(t, domain.StatusEnAttente, d.Etat)
		require.Len(t, d.Paiements, 1)
		assert.True(t, decimal.NewFromInt(250).Equal(d.Encaisse))
		require.Len(t, d.Fichiers, 1)
		assert.Equal(t, "plan.pdf", d.Fichiers[0].NomFichier)
	})

	t.Run("flattened trash flag", func(t *testing.T) {
		rows := BundleToRows(map[string]any{
			"dossiers": []any{
				map[string]any{"id": float64(1), "numero_dossier": "4-2024", "est_supprime": float64(1)},
			},
		})
		require.Len(t, rows, 1)
		assert.Equal(t, domain.StatusCorbeille, rows[0].Etat)
	})
}

func TestBundleRoundTrip(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag")

	rows := sampleRows(t)
	back := BundleToRows(RowsToDesktopBundle(rows))
	require.Len(t, back, 2)

	assert.Equal(t, rows[0].ID, back[0].ID)
	assert.Equal(t, rows[0].Nom, back[0].Nom)
	assert.True(t, rows[0].Montant.Equal(back[0].Montant))
	assert.True(t, rows[0].Encaisse.Equal(back[0].Encaisse))
	assert.Len(t, back[0].Paiements, len(rows[0].Paiements))
	assert.Len(t, back[0].Fichiers, len(rows[0].Fichiers))

	assert.Equal(t, rows[1].ID, back[1].ID)
	assert.Equal(t, domain.StatusCorbeille, back[1].Etat)
}
