package compat

import (
	"fmt"
	"strings"

	"github.com/geoman-app/geoman/internal/core/domain"
)

const defaultFileName = "fichier"

func fileID(name string) string {
	return fmt.Sprintf("%s-%s", name, entryTag())
}

func webPath(dossierID, name string) string {
	return fmt.Sprintf("web://%s/%s", dossierID, name)
}

// NormalizeFile fills defaults on one attachment-metadata entry. The
// logical path is synthesized from the owning dossier when absent.
func NormalizeFile(raw any, dossierID string) domain.FileMeta {
	switch t := raw.(type) {
	case domain.FileMeta:
		f := t
		f.NomFichier = defaultStr(strings.TrimSpace(f.NomFichier), defaultFileName)
		f.CheminFichier = defaultStr(strings.TrimSpace(f.CheminFichier), webPath(dossierID, f.NomFichier))
		f.DateAjout = defaultStr(strings.TrimSpace(f.DateAjout), Today())
		f.Size = strings.TrimSpace(f.Size)
		if strings.TrimSpace(f.ID) == "" {
			f.ID = fileID(f.NomFichier)
		}
		return f
	case map[string]any:
		name := defaultStr(strAlias(t, "nom_fichier", "name"), defaultFileName)
		f := domain.FileMeta{
			NomFichier:    name,
			CheminFichier: defaultStr(strAlias(t, "chemin_fichier", "path"), webPath(dossierID, name)),
			DateAjout:     defaultStr(strAlias(t, "date_ajout", "addedAt"), Today()),
			Size:          strAlias(t, "size", "taille_kb"),
		}
		f.ID = Stringify(t["id"])
		if f.ID == "" {
			f.ID = fileID(name)
		}
		return f
	}
	return NormalizeFile(map[string]any{}, dossierID)
}

// NormalizeFiles canonicalizes attachment metadata in insertion order.
// Duplicate names are allowed and never merged.
func NormalizeFiles(raw any, dossierID string) []domain.FileMeta {
	switch t := raw.(type) {
	case []domain.FileMeta:
		out := make([]domain.FileMeta, 0, len(t))
		for _, f := range t {
			out = append(out, NormalizeFile(f, dossierID))
		}
		return out
	case []any:
		out := make([]domain.FileMeta, 0, len(t))
		for _, f := range t {
			out = append(out, NormalizeFile(f, dossierID))
		}
		return out
	case []map[string]any:
		out := make([]domain.FileMeta, 0, len(t))
		for _, f := range t {
			out = append(out, NormalizeFile(f, dossierID))
		}
		return out
	}
	return []domain.FileMeta{}
}
