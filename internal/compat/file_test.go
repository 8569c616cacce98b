package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFileDefaults(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag1")

	f := NormalizeFile(map[string]any{}, "7-2024")

	assert.Equal(t, "fichier", f.NomFichier)
	assert.Equal(t, "web://7-2024/fichier", f.CheminFichier)
	assert.Equal(t, "2024-06-15", f.DateAjout)
	assert.Equal(t, "fichier-tag1", f.ID)
}

func TestNormalizeFileAliases(t *testing.T) {
	f := NormalizeFile(map[string]any{
		"id":      "f1",
		"name":    "plan.pdf",
		"path":    "/docs/plan.pdf",
		"addedAt": "2024-02-20",
		"size":    "120 KB",
	}, "7-2024")

	assert.Equal(t, "f1", f.ID)
	assert.Equal(t, "plan.pdf", f.NomFichier)
	assert.Equal(t, "/docs/plan.pdf", f.CheminFichier)
	assert.Equal(t, "2024-02-20", f.DateAjout)
	assert.Equal(t, "120 KB", f.Size)
}

func TestNormalizeFilesKeepsDuplicates(t *testing.T) {
	out := NormalizeFiles([]any{
		map[string]any{"nom_fichier": "a.pdf"},
		map[string]any{"nom_fichier": "a.pdf"},
	}, "1-2024")
	assert.Len(t, out, 2)
}
