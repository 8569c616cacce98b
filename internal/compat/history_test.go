package compat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/geoman-app/geoman/internal/core/domain"
)

func TestNormalizeHistoryEntry(t *testing.T) {
	pinClock(t, time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC))

	t.Run("defaults", func(t *testing.T) {
		e := NormalizeHistoryEntry(map[string]any{})
		assert.Equal(t, "2024-03-01T10:30:00.000Z", e.Date)
		assert.Equal(t, "Modification", e.Action)
		assert.Nil(t, e.Details)
	})

	t.Run("explicit fields kept", func(t *testing.T) {
		e := NormalizeHistoryEntry(map[string]any{
			"date":    "2024-01-01T00:00:00.000Z",
			"action":  "Creation",
			"details": "Nouveau dossier cree",
		})
		assert.Equal(t, "Creation", e.Action)
		assert.Equal(t, "2024-01-01T00:00:00.000Z", e.Date)
		assert.Equal(t, "Nouveau dossier cree", *e.Details)
	})
}

func TestNormalizeHistoryKeepsOrder(t *testing.T) {
	out := NormalizeHistory([]any{
		map[string]any{"action": "Creation", "date": "2024-01-02T00:00:00.000Z"},
		map[string]any{"action": "Modification", "date": "2024-01-01T00:00:00.000Z"},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "Creation", out[0].Action)
	assert.Equal(t, "Modification", out[1].Action)
}

func TestAddHistoryEntry(t *testing.T) {
	pinClock(t, time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC))

	existing := []domain.HistoryEntry{{Date: "2024-01-01T00:00:00.000Z", Action: "Creation"}}
	out := AddHistoryEntry(existing, "Archivage", "Dossier archive")

	assert.Len(t, out, 2)
	assert.Equal(t, "Creation", out[0].Action)
	assert.Equal(t, "Archivage", out[1].Action)
	assert.Equal(t, "Dossier archive", *out[1].Details)
	assert.Equal(t, "2024-03-01T10:30:00.000Z", out[1].Date)

	// Existing slice untouched.
	assert.Len(t, existing, 1)
}

func TestAddHistoryEntryNilBase(t *testing.T) {
	out := AddHistoryEntry(nil, "Suppression", "Deplace vers la corbeille")
	assert.Len(t, out, 1)
	assert.Equal(t, "Suppression", out[0].Action)
}
