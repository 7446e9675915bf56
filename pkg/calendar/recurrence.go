package calendar

import (
	"log"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/borgmon/meet-minder/pkg/models"
)

// expandRecurringEvent expands a recurring event into concrete instances
// within the sync window.
func expandRecurringEvent(baseEvent models.Event, rruleStr string, windowStart, windowEnd time.Time) []models.Event {
	duration := baseEvent.EndTime.Sub(baseEvent.StartTime)

	opts, err := rrule.StrToROption(rruleStr)
	if err != nil {
		log.Printf("Unparsable RRULE %q for event %q: %v", rruleStr, baseEvent.Title, err)
		return nil
	}
	opts.Dtstart = baseEvent.StartTime

	rule, err := rrule.NewRRule(*opts)
	if err != nil {
		log.Printf("Invalid RRULE %q for event %q: %v", rruleStr, baseEvent.Title, err)
		return nil
	}

	// Include instances already in progress at the window start.
	occurrences := rule.Between(windowStart.Add(-duration), windowEnd, true)

	events := make([]models.Event, 0, len(occurrences))
	for _, at := range occurrences {
		instance := baseEvent
		instance.StartTime = at
		instance.EndTime = at.Add(duration)
		instance.ID = baseEvent.ID + "-" + at.Format(time.RFC3339)
		events = append(events, instance)
	}

	return events
}
