package schedule

import (
	"fmt"
	"time"
)

// Trigger is a scheduled (event, offset) pair with its computed fire
// instant. Triggers are unique per pair; the ID doubles as the
// cancellation handle.
type Trigger struct {
	ID      string
	EventID string
	Offset  time.Duration // non-negative lead time before event start
	At      time.Time     // StartTime - Offset
}

// TriggerID derives the stable identifier for an (event, offset) pair.
func TriggerID(eventID string, offset time.Duration) string {
	return fmt.Sprintf("%s-%d", eventID, int(offset.Seconds()))
}

// SkipLookup answers whether a specific occurrence of an event has been
// skipped by the user. Implementations are read-only to the scheduler.
type SkipLookup interface {
	IsSkipped(eventID string, day time.Time) bool
}
