package models

import (
	"strings"
	"time"
)

// Event represents a calendar event snapshot. The core never mutates
// events; each sync hands in a fresh copy.
type Event struct {
	ID            string    // iCal event UID
	Title         string    // Event title/summary
	Description   string    // Event description
	Location      string    // Event location field
	StartTime     time.Time // Event start time
	EndTime       time.Time // Event end time
	Status        string    // Event status (CONFIRMED, CANCELLED, NEEDS-ACTION)
	CalendarID    string    // ID of the iCal source this event came from
	AttendeeCount int       // Number of ATTENDEE properties
	LastModified  time.Time // LAST-MODIFIED, used for change detection
}

// Text returns the free text scanned for conferencing links, in the
// order a link is most likely to appear.
func (e Event) Text() string {
	return strings.Join([]string{e.Location, e.Description, e.Title}, "\n")
}

// StartDay returns the calendar day of the event start, for skip lookups.
func (e Event) StartDay() time.Time {
	y, m, d := e.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.StartTime.Location())
}
