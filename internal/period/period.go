// Package period computes the date windows a summary covers.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Selector names one of the supported reporting windows.
type Selector string

const (
	// LastSevenDays is the trailing window ending today.
	LastSevenDays Selector = "last-7-days"
	// CurrentWeek is Monday through Friday of the week containing today.
	CurrentWeek Selector = "current-week"
	// PreviousWeek is Monday through Friday of the week before that.
	PreviousWeek Selector = "previous-week"
)

// ErrInvalidSelector is returned for selectors outside the supported set.
var ErrInvalidSelector = errors.New("invalid period selector")

// Period is a closed date range. Start and End are dates at midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Previous returns the comparison window: the same range shifted back
// exactly seven days on both bounds.
func (p Period) Previous() Period {
	return Period{Start: p.Start.AddDate(0, 0, -7), End: p.End.AddDate(0, 0, -7)}
}

// ParseSelector validates a user-supplied selector value.
func ParseSelector(s string) (Selector, error) {
	switch Selector(s) {
	case LastSevenDays, CurrentWeek, PreviousWeek:
		return Selector(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSelector, s)
}

// Resolve computes the date bounds for a selector relative to today. The
// time of day is discarded first, so a window resolved at 15:42 equals one
// resolved at midnight. Business weeks run Monday through Friday; the same
// weekday math applies when today falls on a weekend.
func Resolve(sel Selector, today time.Time) (Period, error) {
	day := atMidnight(today)
	switch sel {
	case LastSevenDays:
		return Period{Start: day.AddDate(0, 0, -7), End: day}, nil
	case CurrentWeek:
		monday := day.AddDate(0, 0, -weekdayIndex(day))
		return Period{Start: monday, End: monday.AddDate(0, 0, 4)}, nil
	case PreviousWeek:
		monday := day.AddDate(0, 0, -weekdayIndex(day)-7)
		return Period{Start: monday, End: monday.AddDate(0, 0, 4)}, nil
	}
	return Period{}, fmt.Errorf("%w: %q", ErrInvalidSelector, sel)
}

// weekdayIndex maps time.Weekday, which counts Sunday as 0, onto a
// Monday-as-0 index.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
