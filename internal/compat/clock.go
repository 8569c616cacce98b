package compat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Time and identifier sources. Package-level so tests can pin them and
// assert deterministic output; production code never touches these.
var (
	timeNow  = time.Now
	entryTag = func() string {
		return strings.SplitN(uuid.NewString(), "-", 2)[0]
	}
)

func nowISO() string {
	return timeNow().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Today returns the current calendar date in the canonical YYYY-MM-DD form.
func Today() string {
	return timeNow().Format("2006-01-02")
}

// parseDate reads a calendar date or timestamp. The bool result is false
// for anything unparseable; classification treats that as "no date".
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sqlDateTime reformats a timestamp into the space-separated form the
// desktop schema stores. Returns nil when the input is empty or invalid.
func sqlDateTime(s string) *string {
	t, ok := parseDate(s)
	if !ok {
		return nil
	}
	out := t.Format("2006-01-02 15:04:05")
	return &out
}
