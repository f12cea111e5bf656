package report

import (
	"fmt"
	"strings"

	"weeksum/internal/models"
)

const (
	narrativeTimeLayout = "02/01/2006 15:04"
	noStartTime         = "no start time"
	noEndTime           = "no end time"
	noSubject           = "(no subject)"
)

// Narrative renders the events into the text handed to the language model:
// one fragment per event, in order, joined by single spaces. An empty list
// yields an empty string.
func Narrative(events []models.Event) string {
	fragments := make([]string, 0, len(events))
	for _, ev := range events {
		fragments = append(fragments, fragment(ev))
	}
	return strings.Join(fragments, " ")
}

func fragment(ev models.Event) string {
	subject := ev.Subject
	if subject == "" {
		subject = noSubject
	}

	start := noStartTime
	if ev.Start != nil {
		start = ev.Start.Format(narrativeTimeLayout)
	}
	end := noEndTime
	if ev.End != nil {
		end = ev.End.Format(narrativeTimeLayout)
	}

	return fmt.Sprintf("%s: start time %s and end %s. Meeting: %s.", subject, start, end, subject)
}
