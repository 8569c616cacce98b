package compat

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoman-app/geoman/internal/core/domain"
)

func TestBuildDesktopCSV(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag")

	active, ok := NormalizeDossier(map[string]any{
		"id":          "1-2024",
		"nom":         `Jean "JD" Dupont`,
		"endroit":     "Tunis; Centre",
		"date_finale": "2024-09-01",
		"montant":     "1000",
		"paiements": []any{
			map[string]any{"montant": "400", "date": "2024-02-01"},
		},
		"acte": true,
	})
	require.True(t, ok)

	trashed, ok := NormalizeDossier(map[string]any{"id": "2-2024", "etat": "Corbeille"})
	require.True(t, ok)

	out := BuildDesktopCSV([]domain.Dossier{active, trashed})
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 2, "trashed rows are excluded")
	assert.Equal(t, strings.Join(desktopCSVHeader, ";"), lines[0])
	assert.Len(t, strings.Split(lines[0], ";"), 16)

	row := parseCSVLine(lines[1])
	require.Len(t, row, 16)
	assert.Equal(t, "1-2024", row[0])
	assert.Equal(t, `Jean "JD" Dupont`, row[1])
	assert.Equal(t, "Tunis; Centre", row[2])
	assert.Equal(t, "1000", row[5])
	assert.Equal(t, "400", row[6])
	assert.Equal(t, "600", row[7])
	assert.Equal(t, "Oui", row[8])
	assert.Equal(t, "Non", row[9])
}

func TestBuildDesktopCSVZeroAmountsEmpty(t *testing.T) {
	d, ok := NormalizeDossier(map[string]any{"id": "3-2024"})
	require.True(t, ok)

	out := BuildDesktopCSV([]domain.Dossier{d})
	row := parseCSVLine(strings.Split(out, "\n")[1])
	assert.Equal(t, "", row[5])
	assert.Equal(t, "", row[6])
	assert.Equal(t, "", row[7])
}

func TestParseDesktopCSV(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag")

	csv := CSVBOM + strings.Join([]string{
		strings.Join(desktopCSVHeader, ";"),
		`"7-2024";"Jean Dupont";"Tunis";"2024-09-01";"0601020304";"1000,50";"250";"750,50";"Oui";"Non";"Non";"Déposé";"Non depose";"Non";"";"RAS"`,
		`"8-2024";"Marie";"";"";"";"";"";"";"Non";"Non";"Non";"";"";"Oui";"2024-05-01";""`,
		`"";"ignored: no id";"";"";"";"";"";"";"";"";"";"";"";"";"";""`,
	}, "\r\n")

	rows := ParseDesktopCSV(csv)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "7-2024", first.ID)
	assert.Equal(t, "Jean Dupont", first.Nom)
	assert.True(t, decimal.NewFromFloat(1000.5).Equal(first.Montant))
	assert.True(t, decimal.NewFromInt(250).Equal(first.Encaisse))
	assert.True(t, first.Acte)
	assert.False(t, first.Regul)
	assert.Equal(t, domain.DepotDepose, first.DepotCAD)
	assert.Equal(t, domain.StatusEnCours, first.Etat)
	require.Len(t, first.Paiements, 1)
	assert.Equal(t, "Import CSV", first.Paiements[0].Etape)
	assert.Equal(t, "Import desktop CSV", *first.Paiements[0].Notes)
	assert.Equal(t, "2024-09-01", first.Paiements[0].DatePaiement)

	second := rows[1]
	assert.Equal(t, "8-2024", second.ID)
	assert.True(t, second.Archive)
	assert.Equal(t, domain.StatusArchive, second.Etat)
	assert.Equal(t, "2024-05-01", second.DateArchive)
	assert.Empty(t, second.Paiements)
	assert.True(t, second.Encaisse.IsZero())
}

func TestParseDesktopCSVReorderedHeader(t *testing.T) {
	csv := strings.Join([]string{
		`"Nom et Prenom";"No Dossier";"Montant Total"`,
		`"Jean";"9-2024";"500"`,
	}, "\n")

	rows := ParseDesktopCSV(csv)
	require.Len(t, rows, 1)
	assert.Equal(t, "9-2024", rows[0].ID)
	assert.Equal(t, "Jean", rows[0].Nom)
	assert.True(t, decimal.NewFromInt(500).Equal(rows[0].Montant))
}

func TestDesktopCSVRoundTrip(t *testing.T) {
	pinClock(t, midJune2024)
	pinEntryTag(t, "tag")

	source, ok := NormalizeDossier(map[string]any{
		"id":          "7-2024",
		"nom":         "Jean Dupont",
		"endroit":     "Tunis",
		"date_finale": "2024-09-01",
		"montant":     "1000.5",
		"paiements": []any{
			map[string]any{"montant": "250", "date": "2024-02-01"},
		},
		"acte":      true,
		"depot_cad": "Depose",
	})
	require.True(t, ok)

	back := ParseDesktopCSV(BuildDesktopCSV([]domain.Dossier{source}))
	require.Len(t, back, 1)

	got := back[0]
	assert.Equal(t, source.ID, got.ID)
	assert.Equal(t, source.Nom, got.Nom)
	assert.Equal(t, source.Endroit, got.Endroit)
	assert.Equal(t, source.DateFinale, got.DateFinale)
	assert.True(t, source.Montant.Equal(got.Montant))
	assert.True(t, source.Encaisse.Equal(got.Encaisse))
	assert.Equal(t, source.Acte, got.Acte)
	assert.Equal(t, source.DepotCAD, got.DepotCAD)
}

func TestCSVBOMIsSingleByteOrderMark(t *testing.T) {
	assert.Equal(t, "\uFEFF", CSVBOM)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, []byte(CSVBOM))
}

func TestParseDesktopCSVEmptyInput(t *testing.T) {
	assert.Empty(t, ParseDesktopCSV(""))
	assert.Empty(t, ParseDesktopCSV(strings.Join(desktopCSVHeader, ";")))
}
