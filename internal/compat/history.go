package compat

import (
	"strings"

	"github.com/geoman-app/geoman/internal/core/domain"
)

const defaultHistoryAction = "Modification"

// NormalizeHistoryEntry fills defaults on one audit-trail entry.
func NormalizeHistoryEntry(raw any) domain.HistoryEntry {
	switch t := raw.(type) {
	case domain.HistoryEntry:
		e := t
		e.Date = defaultStr(strings.TrimSpace(e.Date), nowISO())
		e.Action = defaultStr(strings.TrimSpace(e.Action), defaultHistoryAction)
		if e.Details != nil {
			e.Details = optional(strings.TrimSpace(*e.Details))
		}
		return e
	case map[string]any:
		return domain.HistoryEntry{
			Date:    defaultStr(Stringify(t["date"]), nowISO()),
			Action:  defaultStr(Stringify(t["action"]), defaultHistoryAction),
			Details: optional(Stringify(t["details"])),
		}
	}
	return domain.HistoryEntry{Date: nowISO(), Action: defaultHistoryAction}
}

// NormalizeHistory defaults every entry without reordering or dropping any.
func NormalizeHistory(raw any) []domain.HistoryEntry {
	switch t := raw.(type) {
	case []domain.HistoryEntry:
		out := make([]domain.HistoryEntry, 0, len(t))
		for _, e := range t {
			out = append(out, NormalizeHistoryEntry(e))
		}
		return out
	case []any:
		out := make([]domain.HistoryEntry, 0, len(t))
		for _, e := range t {
			out = append(out, NormalizeHistoryEntry(e))
		}
		return out
	case []map[string]any:
		out := make([]domain.HistoryEntry, 0, len(t))
		for _, e := range t {
			out = append(out, NormalizeHistoryEntry(e))
		}
		return out
	}
	return []domain.HistoryEntry{}
}

// AddHistoryEntry appends exactly one entry stamped now and returns the new
// sequence. Existing entries are never mutated.
func AddHistoryEntry(existing any, action, details string) []domain.HistoryEntry {
	history := NormalizeHistory(existing)
	return append(history, NormalizeHistoryEntry(domain.HistoryEntry{
		Date:    nowISO(),
		Action:  action,
		Details: optional(strings.TrimSpace(details)),
	}))
}
