package models

import "time"

// Event is the canonical form of a calendar entry, independent of the
// provider payload. Optional timestamps stay nil when the source omits or
// mangles them; every later pipeline stage must tolerate that.
type Event struct {
	UserID            string     // Mailbox the event was fetched for
	Subject           string     // Event subject, "(no subject)" when the source has none
	OrganizerName     string     // Organizer display name, empty when absent
	OrganizerEmail    string     // Organizer address, empty when absent
	Start             *time.Time // Start instant, nil when absent or unparsable
	StartTimeZone     string     // Timezone label attached to the start instant
	End               *time.Time // End instant, nil when absent or unparsable
	EndTimeZone       string     // Timezone label attached to the end instant
	AttendeeEmails    string     // Attendee addresses joined with "; "
	AttendeeNames     string     // Attendee display names joined with "; "
	Location          string     // Location display name, empty when absent
	OnlineMeeting     bool       // Whether the event is an online meeting
	JoinURL           string     // Join link for online meetings, empty otherwise
	UserDisplayName   string     // Display name of the mailbox user
	UserPrincipalName string     // Principal name of the mailbox user
}
