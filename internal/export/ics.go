// Package export renders a reporting window's events as an iCalendar file
// and optionally publishes it to a WebDAV collection.
package export

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"weeksum/internal/models"
)

// ErrEmptyCalendar means the calendar has no events. The iCalendar encoder
// rejects a VCALENDAR without components, so empty windows are refused
// before any file or remote resource is touched.
var ErrEmptyCalendar = errors.New("calendar has no events")

// BuildCalendar renders the events into a VCALENDAR, one VEVENT each.
// Events without timestamps still appear, just without DTSTART/DTEND.
func BuildCalendar(events []models.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//weeksum//EN")

	for _, ev := range events {
		cal.Children = append(cal.Children, toVEvent(ev))
	}
	return cal
}

// toVEvent converts a canonical event to an ical.Component (VEVENT).
func toVEvent(ev models.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uuid.New().String())
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetText(ical.PropSummary, ev.Subject)

	if ev.Start != nil {
		ve.Props.SetDateTime(ical.PropDateTimeStart, *ev.Start)
	}
	if ev.End != nil {
		ve.Props.SetDateTime(ical.PropDateTimeEnd, *ev.End)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.OnlineMeeting && ev.JoinURL != "" {
		ve.Props.SetText(ical.PropDescription, ev.JoinURL)
	}
	if ev.OrganizerEmail != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetText(fmt.Sprintf("mailto:%s", ev.OrganizerEmail))
		ve.Props.Add(p)
	}
	for _, attendee := range splitList(ev.AttendeeEmails) {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText(fmt.Sprintf("mailto:%s", attendee))
		ve.Props.Add(p)
	}
	return ve
}

// splitList undoes the "; " joining of the normalized attendee list.
func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "; ")
}

// WriteFile encodes the calendar to an .ics file at path. Calendars without
// events return ErrEmptyCalendar and leave no file behind.
func WriteFile(path string, cal *ical.Calendar) error {
	if len(cal.Children) == 0 {
		return ErrEmptyCalendar
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ics file: %w", err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
