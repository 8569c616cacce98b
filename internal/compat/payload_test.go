package compat

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoman-app/geoman/internal/core/domain"
)

func TestRowFromDossierNullBoundary(t *testing.T) {
	pinClock(t, midJune2024)

	d := domain.Dossier{
		ID:        "5-2024",
		Nom:       "Marie",
		Etat:      domain.StatusEnCours,
		CreatedAt: "2024-01-01T00:00:00.000Z",
		UpdatedAt: "2024-01-02T00:00:00.000Z",
	}
	row := RowFromDossier(d, false)

	assert.Nil(t, row.DateFinale)
	assert.Nil(t, row.Telephone)
	assert.Nil(t, row.Observations)
	assert.Nil(t, row.DateArchive)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", row.UpdatedAt)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", row.CreatedAt)
}

func TestRowFromDossierTouchUpdated(t *testing.T) {
	at := time.Date(2024, time.July, 1, 8, 0, 0, 0, time.UTC)
	pinClock(t, at)

	d := domain.Dossier{ID: "5-2024", UpdatedAt: "2024-01-02T00:00:00.000Z"}
	row := RowFromDossier(d, true)
	assert.Equal(t, "2024-07-01T08:00:00.000Z", row.UpdatedAt)
}

func TestDossierFromRowDerefsNulls(t *testing.T) {
	tel := "0601020304"
	row := DossierRow{
		ID:        "6-2024",
		Telephone: &tel,
		Etat:      domain.StatusEnCours,
	}
	d := DossierFromRow(row)
	assert.Equal(t, "0601020304", d.Telephone)
	assert.Equal(t, "", d.DateFinale)
	assert.Equal(t, "", d.Observations)
}

func TestToDBPayload(t *testing.T) {
	t.Run("missing identifier", func(t *testing.T) {
		_, ok := ToDBPayload(map[string]any{"nom": "x"}, true)
		assert.False(t, ok)
	})

	t.Run("normalizes then projects", func(t *testing.T) {
		row, ok := ToDBPayload(map[string]any{
			"id":      "8-2024",
			"montant": "300,25",
			"paiements": []any{
				map[string]any{"montant": "100"},
			},
		}, true)
		require.True(t, ok)
		assert.True(t, decimal.NewFromFloat(300.25).Equal(row.Montant))
		assert.True(t, decimal.NewFromInt(100).Equal(row.Encaisse))
		assert.Len(t, row.Paiements, 1)
	})
}
