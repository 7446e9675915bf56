package session

import (
	"fmt"
	"time"

	"github.com/borgmon/meet-minder/pkg/linkres"
	"github.com/borgmon/meet-minder/pkg/models"
)

// State is the lifecycle state of one alert session. The machine's idle
// state is represented by having no current session at all.
type State string

const (
	StateShowing    State = "showing"
	StateDismissing State = "dismissing"
	StateDismissed  State = "dismissed"
)

// Session is the live representation of one on-screen meeting alert.
// Its state field is guarded by the owning machine's lock.
type Session struct {
	ID        string
	Event     models.Event
	Link      *linkres.ResolvedLink // nil when the event has no usable link
	CreatedAt time.Time

	state State
}

// Snapshot is a read-only copy of the current session for UI binding.
type Snapshot struct {
	ID        string
	EventID   string
	Title     string
	State     State
	CreatedAt time.Time
	HasLink   bool
}

// SnoozeOption describes how long an alert should stay quiet before it
// is re-shown.
type SnoozeOption struct {
	Minutes          int
	UntilMeetingTime bool
}

// SnoozeFor snoozes for a fixed number of minutes.
func SnoozeFor(minutes int) SnoozeOption {
	return SnoozeOption{Minutes: minutes}
}

// SnoozeUntilMeetingTime snoozes until just before the meeting starts.
func SnoozeUntilMeetingTime() SnoozeOption {
	return SnoozeOption{UntilMeetingTime: true}
}

const (
	// meetingLeadTime is how far ahead of the start the
	// until-meeting-time snooze re-fires.
	meetingLeadTime = 30 * time.Second
	// minSnoozeDelay guarantees a snoozed alert never re-fires in under
	// ten seconds, even for meetings that are about to start.
	minSnoozeDelay = 10 * time.Second
)

func (o SnoozeOption) delay(start, now time.Time) time.Duration {
	if !o.UntilMeetingTime {
		return time.Duration(o.Minutes) * time.Minute
	}

	d := start.Sub(now) - meetingLeadTime
	if d < minSnoozeDelay {
		d = minSnoozeDelay
	}
	return d
}

// Label returns the overlay button text for this option.
func (o SnoozeOption) Label() string {
	if o.UntilMeetingTime {
		return "Snooze until meeting"
	}
	return fmt.Sprintf("Snooze %dm", o.Minutes)
}
