package compat

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/geoman-app/geoman/internal/core/domain"
)

// CSVBOM prefixes exported files so spreadsheet tools pick up UTF-8.
const CSVBOM = "\uFEFF"

// desktopCSVHeader is the fixed 16-column layout of the desktop export.
// Parsing locates columns by name, so a reordered header still imports.
var desktopCSVHeader = []string{
	"No Dossier",
	"Nom et Prenom",
	"Endroit",
	"Date Finalisation",
	"Telephone",
	"Montant Total",
	"Encaisse",
	"Reste",
	"Acte",
	"Regul",
	"Agricole",
	"Depot CAD",
	"Depot Domain",
	"Archive",
	"Date Archive",
	"Observations",
}

func csvEscape(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func ouiNon(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

// amountCell renders a monetary value, with zero as an empty cell the way
// the desktop app exported it.
func amountCell(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// BuildDesktopCSV renders non-trashed records as semicolon-delimited text,
// every field quoted with embedded quotes doubled. Collected and remaining
// amounts are recomputed from the ledger at export time.
func BuildDesktopCSV(rows []domain.Dossier) string {
	lines := []string{strings.Join(desktopCSVHeader, ";")}
	for _, raw := range rows {
		row, ok := NormalizeDossier(ToRaw(raw))
		if !ok || IsInTrash(row) {
			continue
		}
		encaisse := SumPayments(row.Paiements, row.Encaisse)
		reste := row.Montant.Sub(encaisse)
		if reste.IsNegative() {
			reste = decimal.Zero
		}
		values := []string{
			row.ID,
			row.Nom,
			row.Endroit,
			row.DateFinale,
			row.Telephone,
			amountCell(row.Montant),
			amountCell(encaisse),
			amountCell(reste),
			ouiNon(row.Acte),
			ouiNon(row.Regul),
			ouiNon(row.Agricole),
			string(row.DepotCAD),
			string(row.DepotDomain),
			ouiNon(IsArchived(row)),
			row.DateArchive,
			row.Observations,
		}
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = csvEscape(v)
		}
		lines = append(lines, strings.Join(escaped, ";"))
	}
	return strings.Join(lines, "\n")
}

// parseCSVLine splits one semicolon-delimited line, honoring quoted fields
// with doubled-quote escapes, and trims each resulting cell.
func parseCSVLine(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ';' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	values = append(values, strings.TrimSpace(current.String()))
	return values
}

func cell(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}

// ParseDesktopCSV reads the desktop export back into canonical records.
// A single payment entry is synthesized when a row carries a non-zero
// collected amount, since the format has no per-payment granularity.
func ParseDesktopCSV(text string) []domain.Dossier {
	input := strings.TrimPrefix(text, CSVBOM)
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 2 {
		return []domain.Dossier{}
	}

	headerIndex := make(map[string]int)
	for i, h := range parseCSVLine(lines[0]) {
		headerIndex[Slugify(h)] = i
	}
	idx := func(name string) int {
		if i, ok := headerIndex[Slugify(name)]; ok {
			return i
		}
		return -1
	}

	iNo := idx("No Dossier")
	iNom := idx("Nom et Prenom")
	iEndroit := idx("Endroit")
	iDate := idx("Date Finalisation")
	iTel := idx("Telephone")
	iMontant := idx("Montant Total")
	iEncaisse := idx("Encaisse")
	iActe := idx("Acte")
	iRegul := idx("Regul")
	iAgricole := idx("Agricole")
	iCAD := idx("Depot CAD")
	iDomain := idx("Depot Domain")
	iArchive := idx("Archive")
	iDateArchive := idx("Date Archive")
	iObs := idx("Observations")

	rows := make([]domain.Dossier, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := parseCSVLine(line)
		id := cell(values, iNo)
		if id == "" {
			continue
		}
		archive := Slugify(cell(values, iArchive)) == "oui"
		encaisse := ToDecimal(cell(values, iEncaisse), decimal.Zero)
		paiements := []domain.Payment{}
		if encaisse.GreaterThan(decimal.Zero) {
			paiements = append(paiements, NormalizePayment(map[string]any{
				"montant_paye":  encaisse,
				"date_paiement": defaultStr(cell(values, iDate), Today()),
				"etape":         "Import CSV",
				"notes":         "Import desktop CSV",
				"mode_paiement": defaultMode,
			}))
		}
		etat := domain.StatusEnCours
		if archive {
			etat = domain.StatusArchive
		}
		row, ok := NormalizeDossier(map[string]any{
			"id":           id,
			"nom":          cell(values, iNom),
			"endroit":      cell(values, iEndroit),
			"date_finale":  cell(values, iDate),
			"telephone":    cell(values, iTel),
			"montant":      cell(values, iMontant),
			"encaisse":     encaisse,
			"acte":         Slugify(cell(values, iActe)) == "oui",
			"regul":        Slugify(cell(values, iRegul)) == "oui",
			"agricole":     Slugify(cell(values, iAgricole)) == "oui",
			"depot_cad":    cell(values, iCAD),
			"depot_domain": cell(values, iDomain),
			"archive":      archive,
			"date_archive": cell(values, iDateArchive),
			"etat":         string(etat),
			"observations": cell(values, iObs),
			"paiements":    paiements,
		})
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}
