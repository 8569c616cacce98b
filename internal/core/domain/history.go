package domain

// HistoryEntry is one line of a dossier's append-only audit trail.
type HistoryEntry struct {
	Date    string  `json:"date"` // ISO-8601 timestamp
	Action  string  `json:"action"`
	Details *string `json:"details"`
}
