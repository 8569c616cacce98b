package compat

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/geoman-app/geoman/internal/core/domain"
)

// NormalizeDossier is the entry point for every inbound record regardless
// of origin: current web schema, legacy web aliases, or desktop rows. The
// only fatal defect is a missing identifier; everything else defaults.
func NormalizeDossier(raw map[string]any) (domain.Dossier, bool) {
	id := strAlias(raw, "id", "numero_dossier")
	if id == "" {
		return domain.Dossier{}, false
	}

	archive := ToBool(rawAlias(raw, "archive", "est_archive"))
	trash := ToBool(raw["est_supprime"]) || Slugify(rawAlias(raw, "etat", "statut")) == "corbeille"
	status := NormalizeStatus(rawAlias(raw, "etat", "statut"), archive, trash)
	paiements := NormalizePayments(raw["paiements"])
	fichiers := NormalizeFiles(raw["fichiers"], id)

	dateArchive := Stringify(raw["date_archive"])
	if dateArchive == "" && (archive || trash) {
		dateArchive = Today()
	}

	return domain.Dossier{
		ID:           id,
		Nom:          strAlias(raw, "nom", "nom_prenom"),
		Endroit:      Stringify(raw["endroit"]),
		DateFinale:   strAlias(raw, "date_finale", "date_finalisation"),
		Telephone:    Stringify(raw["telephone"]),
		Montant:      ToDecimal(raw["montant"], decimal.Zero),
		Encaisse:     SumPayments(paiements, raw["encaisse"]),
		Acte:         ToBool(raw["acte"]),
		Regul:        ToBool(raw["regul"]),
		Agricole:     ToBool(raw["agricole"]),
		DepotCAD:     NormalizeDepot(raw["depot_cad"]),
		DepotDomain:  NormalizeDepot(raw["depot_domain"]),
		Observations: Stringify(raw["observations"]),
		Archive:      archive,
		DateArchive:  dateArchive,
		Etat:         status,
		Paiements:    paiements,
		Fichiers:     fichiers,
		Historique:   NormalizeHistory(raw["historique"]),
		CreatedAt:    defaultStr(strAlias(raw, "created_at", "date_creation"), nowISO()),
		UpdatedAt:    defaultStr(strAlias(raw, "updated_at", "date_modification"), nowISO()),
	}, true
}

// ToRaw projects a canonical dossier back to the loose map shape, keyed by
// canonical field names. Used to merge patches onto a last-read snapshot
// before re-normalizing.
func ToRaw(d domain.Dossier) map[string]any {
	b, err := json.Marshal(d)
	if err != nil {
		return map[string]any{"id": d.ID}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{"id": d.ID}
	}
	return m
}
