package compat

import (
	"testing"
	"time"
)

// pinClock fixes the package clock for the duration of one test.
func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

// pinEntryTag fixes identifier synthesis for the duration of one test.
func pinEntryTag(t *testing.T, tag string) {
	t.Helper()
	prev := entryTag
	entryTag = func() string { return tag }
	t.Cleanup(func() { entryTag = prev })
}

// midJune2024 is noon UTC on an arbitrary reference day.
var midJune2024 = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
