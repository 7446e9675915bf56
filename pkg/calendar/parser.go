package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/borgmon/meet-minder/pkg/models"
)

var cancelledTitle = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func parseEvent(comp *ical.Component) models.Event {
	event := models.Event{}

	// iCal UID is the stable event identity across syncs.
	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		event.ID = uidProp.Value
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		event.Title = summaryProp.Value
	}

	if descProp := comp.Props.Get(ical.PropDescription); descProp != nil {
		event.Description = descProp.Value
	}

	if locProp := comp.Props.Get(ical.PropLocation); locProp != nil {
		event.Location = locProp.Value
	}

	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		if t, err := parseDateTimeProperty(startProp); err == nil {
			event.StartTime = t
		}
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := parseDateTimeProperty(endProp); err == nil {
			event.EndTime = t
		}
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		event.Status = statusProp.Value
	}

	if modProp := comp.Props.Get(ical.PropLastModified); modProp != nil {
		if t, err := parseDateTimeProperty(modProp); err == nil {
			event.LastModified = t
		}
	}

	event.AttendeeCount = len(comp.Props.Values(ical.PropAttendee))

	// Polyfill: some feeds mark cancellation only in the title.
	if event.Status != "CANCELLED" {
		cleanTitle := cancelledTitle.ReplaceAllString(strings.ToLower(event.Title), "")
		if strings.HasPrefix(cleanTitle, "canceled") || strings.HasPrefix(cleanTitle, "cancelled") {
			event.Status = "CANCELLED"
		}
	}

	return event
}

// parseDateTimeProperty attempts to parse a datetime property with
// multiple strategies, falling back to raw-value formats that broken
// feeds emit.
func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), nil
	}

	value := prop.Value
	formats := []string{
		"20060102T150405",     // Basic format: YYYYMMDDTHHMMSS
		"20060102T150405Z",    // UTC format
		time.RFC3339,          // Standard RFC3339
		"2006-01-02T15:04:05", // ISO 8601 without timezone
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", value)
}
