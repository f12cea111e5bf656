package msgraph

import (
	"strings"
	"time"

	"weeksum/internal/models"
)

// EmailAddress is a name and address pair.
type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Recipient wraps an email address the way Graph nests organizers and
// attendees.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// DateTimeZone is Graph's dateTimeTimeZone shape: a zone-less timestamp
// string plus a separate timezone label.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location is the event's location descriptor.
type Location struct {
	DisplayName string `json:"displayName"`
}

// OnlineMeeting is the nested online-meeting descriptor.
type OnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

// RawEvent is a calendar event as delivered by the service. Every field can
// be absent, so optional objects are pointers and absence survives decoding.
type RawEvent struct {
	Subject          *string        `json:"subject"`
	Organizer        *Recipient     `json:"organizer"`
	Start            *DateTimeZone  `json:"start"`
	End              *DateTimeZone  `json:"end"`
	Attendees        []Recipient    `json:"attendees"`
	Location         *Location      `json:"location"`
	IsOnlineMeeting  *bool          `json:"isOnlineMeeting"`
	OnlineMeetingURL string         `json:"onlineMeetingUrl"`
	JoinURL          string         `json:"joinUrl"`
	OnlineMeeting    *OnlineMeeting `json:"onlineMeeting"`
}

// Identity is the mailbox user stamped onto every normalized event.
type Identity struct {
	Email         string
	DisplayName   string
	PrincipalName string
}

// noSubject is the placeholder for events delivered without a subject.
const noSubject = "(no subject)"

// joinLinkAttempts lists, in precedence order, every place a join link has
// been observed in the payload. The first non-empty hit wins.
var joinLinkAttempts = []func(RawEvent) string{
	func(ev RawEvent) string { return ev.OnlineMeetingURL },
	func(ev RawEvent) string { return ev.JoinURL },
	func(ev RawEvent) string {
		if ev.OnlineMeeting != nil {
			return ev.OnlineMeeting.JoinURL
		}
		return ""
	},
}

// Normalize maps raw events onto the canonical model, one to one and in
// order. It never fails: absent fields become their documented defaults and
// unparsable timestamps become nil.
func Normalize(events []RawEvent, user Identity) []models.Event {
	normalized := make([]models.Event, 0, len(events))
	for _, ev := range events {
		normalized = append(normalized, normalizeEvent(ev, user))
	}
	return normalized
}

func normalizeEvent(ev RawEvent, user Identity) models.Event {
	subject := noSubject
	if ev.Subject != nil {
		subject = *ev.Subject
	}

	var organizerName, organizerEmail string
	if ev.Organizer != nil {
		organizerName = ev.Organizer.EmailAddress.Name
		organizerEmail = ev.Organizer.EmailAddress.Address
	}

	start, startZone := parseInstant(ev.Start)
	end, endZone := parseInstant(ev.End)

	// Addresses and names are collected independently: an attendee without
	// an address can still contribute a name, so the two lists may differ
	// in length and alignment.
	var emails, names []string
	for _, attendee := range ev.Attendees {
		if attendee.EmailAddress.Address != "" {
			emails = append(emails, attendee.EmailAddress.Address)
		}
		if attendee.EmailAddress.Name != "" {
			names = append(names, attendee.EmailAddress.Name)
		}
	}

	var location string
	if ev.Location != nil {
		location = ev.Location.DisplayName
	}

	online := ev.IsOnlineMeeting != nil && *ev.IsOnlineMeeting
	link := joinLink(ev)
	if link != "" {
		// A join link proves the meeting is online even when the flag is
		// absent or false.
		online = true
	}

	return models.Event{
		UserID:            user.Email,
		Subject:           subject,
		OrganizerName:     organizerName,
		OrganizerEmail:    organizerEmail,
		Start:             start,
		StartTimeZone:     startZone,
		End:               end,
		EndTimeZone:       endZone,
		AttendeeEmails:    strings.Join(emails, "; "),
		AttendeeNames:     strings.Join(names, "; "),
		Location:          location,
		OnlineMeeting:     online,
		JoinURL:           link,
		UserDisplayName:   user.DisplayName,
		UserPrincipalName: user.PrincipalName,
	}
}

func joinLink(ev RawEvent) string {
	for _, attempt := range joinLinkAttempts {
		if link := attempt(ev); link != "" {
			return link
		}
	}
	return ""
}

// parseInstant reads a Graph timestamp. Zone-less strings are taken as UTC;
// anything unparsable maps to nil so the pipeline keeps going. The timezone
// label is carried through even when the timestamp itself is unusable.
func parseInstant(dtz *DateTimeZone) (*time.Time, string) {
	if dtz == nil {
		return nil, ""
	}
	if dtz.DateTime == "" {
		return nil, dtz.TimeZone
	}
	for _, layout := range []string{time.RFC3339, dateTimeLayout} {
		if t, err := time.Parse(layout, dtz.DateTime); err == nil {
			return &t, dtz.TimeZone
		}
	}
	return nil, dtz.TimeZone
}
