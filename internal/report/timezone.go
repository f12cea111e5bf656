// Package report assembles the weekly summary: it canonicalizes event
// times, renders the meeting narrative, and drives fetch and generation for
// the reporting window and its comparison window.
package report

import (
	"time"

	"weeksum/internal/models"
)

// Canonicalize returns a copy of the events with every instant expressed in
// the reporting location and both timezone labels overwritten with its
// name. Nil instants pass through, the transformation is idempotent, and
// the input slice is never mutated.
func Canonicalize(events []models.Event, loc *time.Location) []models.Event {
	out := make([]models.Event, len(events))
	for i, ev := range events {
		ev.Start = inLocation(ev.Start, loc)
		ev.End = inLocation(ev.End, loc)
		ev.StartTimeZone = loc.String()
		ev.EndTimeZone = loc.String()
		out[i] = ev
	}
	return out
}

// inLocation converts without touching the caller's instant. Instants
// parsed from zone-less source strings already carry UTC, so the conversion
// realizes the "no zone means UTC" reading.
func inLocation(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	converted := t.In(loc)
	return &converted
}
