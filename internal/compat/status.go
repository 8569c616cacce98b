package compat

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/geoman-app/geoman/internal/core/domain"
)

// statusBySlug folds the historical free-text status spellings onto the
// stored enumeration. Legacy fine-grained web states (retard, echeance,
// partiel...) are deliberately absent: they collapse to En cours and are
// recomputed as display states on read.
var statusBySlug = map[string]domain.Status{
	"en attente": domain.StatusEnAttente,
	"attente":    domain.StatusEnAttente,
	"waiting":    domain.StatusEnAttente,
	"termine":    domain.StatusTermine,
	"terminee":   domain.StatusTermine,
	"done":       domain.StatusTermine,
	"bloque":     domain.StatusBloque,
	"blocked":    domain.StatusBloque,
	"archive":    domain.StatusArchive,
	"archived":   domain.StatusArchive,
	"corbeille":  domain.StatusCorbeille,
	"trash":      domain.StatusCorbeille,
	"supprime":   domain.StatusCorbeille,
	"deleted":    domain.StatusCorbeille,
}

// NormalizeStatus maps raw status text plus the archive and trash flags
// onto the stored enumeration. Trash dominates archive, archive dominates
// the text, and unrecognized text folds to En cours.
func NormalizeStatus(raw any, archive, trash bool) domain.Status {
	if trash {
		return domain.StatusCorbeille
	}
	if archive {
		return domain.StatusArchive
	}
	if st, ok := statusBySlug[Slugify(raw)]; ok {
		return st
	}
	return domain.StatusEnCours
}

// NormalizeDepot clamps a filing state to its closed enumeration.
// "en cours" was the desktop app's spelling for a second filing in flight.
func NormalizeDepot(raw any) domain.DepotStatus {
	switch Slugify(raw) {
	case "depose":
		return domain.DepotDepose
	case "depose 2eme fois", "depose deuxieme fois", "en cours":
		return domain.DepotDeposeDeuxFois
	}
	return domain.DepotNonDepose
}

// DisplayState is the derived presentation-time classification. It is
// never stored; every consumer recomputes it from canonical fields.
type DisplayState string

const (
	DisplayEnCours   DisplayState = "en_cours"
	DisplayCorbeille DisplayState = "corbeille"
	DisplayArchive   DisplayState = "archive"
	DisplayRetard    DisplayState = "retard"
	DisplayEcheance  DisplayState = "echeance"
	DisplayPartiel   DisplayState = "partiel"
	DisplayTermine   DisplayState = "termine"
	DisplayBloque    DisplayState = "bloque"
	DisplayAttente   DisplayState = "attente"
)

// IsInTrash reports whether the stored status marks the dossier as soft
// deleted. The status field is authoritative here, not the archive flag.
func IsInTrash(d domain.Dossier) bool {
	return NormalizeStatus(string(d.Etat), false, false) == domain.StatusCorbeille
}

// IsArchived reports whether the dossier is archived; trash dominates.
func IsArchived(d domain.Dossier) bool {
	return !IsInTrash(d) && d.Archive
}

// IsOverdue reports whether the final date lies strictly before today at
// midnight. Archived and trashed dossiers are never overdue.
func IsOverdue(d domain.Dossier) bool {
	if IsInTrash(d) || IsArchived(d) || d.DateFinale == "" {
		return false
	}
	due, ok := parseDate(d.DateFinale)
	if !ok {
		return false
	}
	now := timeNow()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, due.Location())
	return due.Before(today)
}

// IsDueSoon reports whether the final date falls within the next `days`
// days, today included.
func IsDueSoon(d domain.Dossier, days int) bool {
	if IsInTrash(d) || IsArchived(d) || d.DateFinale == "" {
		return false
	}
	due, ok := parseDate(d.DateFinale)
	if !ok {
		return false
	}
	diff := int(math.Ceil(due.Sub(timeNow()).Hours() / 24))
	return diff >= 0 && diff <= days
}

// HasOutstanding reports whether anything remains to collect. Unlike the
// partiel display state it does not require a partial payment to exist.
func HasOutstanding(d domain.Dossier) bool {
	if IsInTrash(d) || IsArchived(d) {
		return false
	}
	return d.Montant.GreaterThan(d.Encaisse)
}

// GetDisplayState derives the presentation classification, first match
// winning: corbeille, archive, retard, echeance, partiel, then the stored
// status, then en_cours.
func GetDisplayState(d domain.Dossier) DisplayState {
	if IsInTrash(d) {
		return DisplayCorbeille
	}
	if IsArchived(d) {
		return DisplayArchive
	}
	if IsOverdue(d) {
		return DisplayRetard
	}
	if IsDueSoon(d, 7) {
		return DisplayEcheance
	}
	if HasOutstanding(d) && d.Encaisse.GreaterThan(decimal.Zero) {
		return DisplayPartiel
	}
	switch NormalizeStatus(string(d.Etat), false, false) {
	case domain.StatusTermine:
		return DisplayTermine
	case domain.StatusBloque:
		return DisplayBloque
	case domain.StatusEnAttente:
		return DisplayAttente
	}
	return DisplayEnCours
}
