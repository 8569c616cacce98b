package compat

import (
	"encoding/json"

	"github.com/geoman-app/geoman/internal/core/domain"
)

// BundleSchema tags the denormalized desktop interchange payload.
const BundleSchema = "geoman.desktop.bundle.v2"

// DesktopDossier is the flattened dossier-table row of the interchange
// bundle. The surrogate integer id exists only in this representation;
// the natural key stays in numero_dossier.
type DesktopDossier struct {
	ID               int64    `json:"id"`
	NumeroDossier    string   `json:"numero_dossier"`
	NomPrenom        string   `json:"nom_prenom"`
	Endroit          string   `json:"endroit"`
	DateFinalisation *string  `json:"date_finalisation"`
	Telephone        *string  `json:"telephone"`
	Montant          *float64 `json:"montant"`
	Acte             int      `json:"acte"`
	Regul            int      `json:"regul"`
	Agricole         int      `json:"agricole"`
	DepotCAD         string   `json:"depot_cad"`
	DepotDomain      string   `json:"depot_domain"`
	Observations     *string  `json:"observations"`
	DateCreation     string   `json:"date_creation"`
	DateModification *string  `json:"date_modification"`
	EstArchive       int      `json:"est_archive"`
	DateArchive      *string  `json:"date_archive"`
	Statut           string   `json:"statut"`
	EstSupprime      int      `json:"est_supprime"`
	DateSuppression  *string  `json:"date_suppression"`
}

// DesktopPayment is a flattened ledger entry carrying the owning dossier's
// surrogate key.
type DesktopPayment struct {
	ID            int64   `json:"id"`
	DossierID     int64   `json:"dossier_id"`
	MontantPaye   float64 `json:"montant_paye"`
	DatePaiement  string  `json:"date_paiement"`
	Etape         string  `json:"etape"`
	Notes         *string `json:"notes"`
	DateCreation  string  `json:"date_creation"`
	ReceiptNumber *string `json:"receipt_number"`
	ModePaiement  string  `json:"mode_paiement"`
}

// DesktopFile is a flattened attachment-metadata entry.
type DesktopFile struct {
	ID            int64  `json:"id"`
	DossierID     int64  `json:"dossier_id"`
	NomFichier    string `json:"nom_fichier"`
	CheminFichier string `json:"chemin_fichier"`
	DateAjout     string `json:"date_ajout"`
}

// DesktopBundle is the multi-table interchange shape used for desktop file
// exchange.
type DesktopBundle struct {
	Schema     string           `json:"schema"`
	ExportedAt string           `json:"exported_at"`
	Dossiers   []DesktopDossier `json:"dossiers"`
	Paiements  []DesktopPayment `json:"paiements"`
	Fichiers   []DesktopFile    `json:"fichiers"`
}

// desktopStatus restricts a stored status to the four textual values the
// flattened vocabulary carries; archive and trash travel as flags instead.
func desktopStatus(d domain.Dossier) string {
	switch NormalizeStatus(string(d.Etat), false, false) {
	case domain.StatusEnAttente:
		return string(domain.StatusEnAttente)
	case domain.StatusTermine:
		return string(domain.StatusTermine)
	case domain.StatusBloque:
		return string(domain.StatusBloque)
	}
	return string(domain.StatusEnCours)
}

func coalesceSQL(values ...string) *string {
	for _, v := range values {
		if out := sqlDateTime(v); out != nil {
			return out
		}
	}
	return nil
}

// RowsToDesktopBundle flattens canonical records into the three-table
// bundle, assigning fresh 1-based surrogate keys per table. Records that
// fail normalization are skipped.
func RowsToDesktopBundle(rows []domain.Dossier) DesktopBundle {
	bundle := DesktopBundle{
		Schema:     BundleSchema,
		ExportedAt: nowISO(),
		Dossiers:   []DesktopDossier{},
		Paiements:  []DesktopPayment{},
		Fichiers:   []DesktopFile{},
	}

	var dossierSeq, paymentSeq, fileSeq int64
	for _, raw := range rows {
		row, ok := NormalizeDossier(ToRaw(raw))
		if !ok {
			continue
		}
		dossierSeq++
		sqlID := dossierSeq
		trash := IsInTrash(row)
		archived := IsArchived(row)

		var montant *float64
		if !row.Montant.IsZero() {
			f := row.Montant.InexactFloat64()
			montant = &f
		}
		var dateSuppression *string
		if trash {
			dateSuppression = coalesceSQL(row.UpdatedAt, nowISO())
		}

		created := coalesceSQL(row.CreatedAt, nowISO())
		bundle.Dossiers = append(bundle.Dossiers, DesktopDossier{
			ID:               sqlID,
			NumeroDossier:    row.ID,
			NomPrenom:        row.Nom,
			Endroit:          defaultStr(row.Endroit, "-"),
			DateFinalisation: optional(row.DateFinale),
			Telephone:        optional(row.Telephone),
			Montant:          montant,
			Acte:             boolToInt(row.Acte),
			Regul:            boolToInt(row.Regul),
			Agricole:         boolToInt(row.Agricole),
			DepotCAD:         string(row.DepotCAD),
			DepotDomain:      string(row.DepotDomain),
			Observations:     optional(row.Observations),
			DateCreation:     *created,
			DateModification: sqlDateTime(row.UpdatedAt),
			EstArchive:       boolToInt(archived),
			DateArchive:      optional(row.DateArchive),
			Statut:           desktopStatus(row),
			EstSupprime:      boolToInt(trash),
			DateSuppression:  dateSuppression,
		})

		for _, p := range NormalizePayments(row.Paiements) {
			paymentSeq++
			createdAt := coalesceSQL(p.DateCreation, nowISO())
			bundle.Paiements = append(bundle.Paiements, DesktopPayment{
				ID:            paymentSeq,
				DossierID:     sqlID,
				MontantPaye:   p.MontantPaye.InexactFloat64(),
				DatePaiement:  defaultStr(p.DatePaiement, Today()),
				Etape:         defaultStr(p.Etape, defaultStage),
				Notes:         p.Notes,
				DateCreation:  *createdAt,
				ReceiptNumber: p.ReceiptNumber,
				ModePaiement:  defaultStr(p.ModePaiement, defaultMode),
			})
		}

		for _, f := range NormalizeFiles(row.Fichiers, row.ID) {
			fileSeq++
			bundle.Fichiers = append(bundle.Fichiers, DesktopFile{
				ID:            fileSeq,
				DossierID:     sqlID,
				NomFichier:    f.NomFichier,
				CheminFichier: defaultStr(f.CheminFichier, webPath(row.ID, f.NomFichier)),
				DateAjout:     defaultStr(f.DateAjout, Today()),
			})
		}
	}
	return bundle
}

// BundleToRows accepts any of the three historical import shapes: a bare
// array of raw records, an object carrying a rows array, or the flattened
// three-table bundle. Records without an identifier are dropped silently;
// imports are best effort.
func BundleToRows(payload any) []domain.Dossier {
	switch t := payload.(type) {
	case nil:
		return []domain.Dossier{}
	case DesktopBundle:
		return BundleToRows(toAnyMap(t))
	case []domain.Dossier:
		out := make([]domain.Dossier, 0, len(t))
		for _, d := range t {
			if nd, ok := NormalizeDossier(ToRaw(d)); ok {
				out = append(out, nd)
			}
		}
		return out
	case []any:
		return normalizeRawRows(t)
	case []map[string]any:
		anys := make([]any, len(t))
		for i, m := range t {
			anys[i] = m
		}
		return normalizeRawRows(anys)
	case map[string]any:
		if rows, ok := t["rows"].([]any); ok {
			return normalizeRawRows(rows)
		}
		dossiers, ok := t["dossiers"].([]any)
		if !ok {
			return []domain.Dossier{}
		}
		return flattenedToRows(dossiers, anyList(t["paiements"]), anyList(t["fichiers"]))
	}
	return []domain.Dossier{}
}

func normalizeRawRows(rows []any) []domain.Dossier {
	out := make([]domain.Dossier, 0, len(rows))
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if nd, ok := NormalizeDossier(m); ok {
			out = append(out, nd)
		}
	}
	return out
}

// flattenedToRows reconstitutes ownership through the surrogate foreign
// keys, then re-normalizes each dossier.
func flattenedToRows(dossiers, paiements, fichiers []any) []domain.Dossier {
	paymentsByDossier := groupByFK(paiements)
	filesByDossier := groupByFK(fichiers)

	out := make([]domain.Dossier, 0, len(dossiers))
	for _, d := range dossiers {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		raw := make(map[string]any, len(m)+4)
		for k, v := range m {
			raw[k] = v
		}
		raw["id"] = rawAlias(m, "numero_dossier", "id")
		raw["nom"] = m["nom_prenom"]
		raw["date_finale"] = m["date_finalisation"]
		raw["archive"] = m["est_archive"]
		if ToBool(m["est_supprime"]) {
			raw["etat"] = string(domain.StatusCorbeille)
		} else {
			raw["etat"] = m["statut"]
		}
		key := Stringify(m["id"])
		raw["paiements"] = paymentsByDossier[key]
		raw["fichiers"] = filesByDossier[key]
		if nd, ok := NormalizeDossier(raw); ok {
			out = append(out, nd)
		}
	}
	return out
}

func groupByFK(entries []any) map[string][]any {
	grouped := make(map[string][]any)
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		key := Stringify(m["dossier_id"])
		grouped[key] = append(grouped[key], m)
	}
	return grouped
}

func anyList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	}
	return nil
}

// toAnyMap round-trips a typed bundle through JSON so the map-shaped
// import path handles it like any other payload.
func toAnyMap(b DesktopBundle) map[string]any {
	data, err := json.Marshal(b)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
