package calendar

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/borgmon/meet-minder/pkg/models"
)

// syncHorizon bounds how far ahead events are kept; alerts beyond it are
// picked up by a later sync.
const syncHorizon = 24 * time.Hour

// FetchEvents fetches and parses events from an iCal source.
func FetchEvents(source models.ICalSource) ([]models.Event, error) {
	events, err := fetchAndParseICal(source.URL)
	if err != nil {
		return nil, err
	}

	// Tag events with their source and backfill IDs for feeds that
	// omit the UID property.
	eventsWithoutUID := 0
	for i := range events {
		events[i].CalendarID = source.ID
		if events[i].ID == "" {
			events[i].ID = source.ID + "-" + events[i].StartTime.Format(time.RFC3339) + "-" + events[i].Title
			eventsWithoutUID++
		}
	}

	if eventsWithoutUID > 0 {
		log.Printf("Generated fallback IDs for %d events without UID", eventsWithoutUID)
	}

	return events, nil
}

func fetchAndParseICal(icalURL string) ([]models.Event, error) {
	resp, err := http.Get(icalURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	bodyStr := string(body)
	if err := validateICalFormat(bodyStr); err != nil {
		return nil, err
	}

	return ParseEvents(strings.NewReader(bodyStr))
}

// ParseEvents decodes iCalendar data into filtered, de-duplicated event
// snapshots within the sync horizon.
func ParseEvents(r io.Reader) ([]models.Event, error) {
	decoder := ical.NewDecoder(r)
	events := []models.Event{}
	seenEventIDs := make(map[string]bool)
	seenEventKeys := make(map[string]bool) // key: title + start time

	now := time.Now()
	horizon := now.Add(syncHorizon)
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}

			normalizeComponentTimezones(comp)
			event := parseEvent(comp)

			candidates := []models.Event{event}
			if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil {
				candidates = expandRecurringEvent(event, rruleProp.Value, now, horizon)
			}

			for _, candidate := range candidates {
				if !shouldIncludeEvent(candidate, now, horizon, stats) {
					continue
				}

				if seenEventIDs[candidate.ID] {
					stats.filteredDuplicates++
					continue
				}
				eventKey := candidate.Title + "|" + candidate.StartTime.Format(time.RFC3339)
				if seenEventKeys[eventKey] {
					stats.filteredDuplicates++
					continue
				}

				seenEventIDs[candidate.ID] = true
				seenEventKeys[eventKey] = true
				events = append(events, candidate)
			}
		}
	}

	if total := stats.total(); total > 0 {
		log.Printf("Calendar sync included %d events, filtered %d (%d cancelled, %d all-day, %d outside window, %d missing time, %d duplicates)",
			len(events), total, stats.filteredCancelled, stats.filteredAllDay,
			stats.filteredOutsideWindow, stats.filteredMissingTime, stats.filteredDuplicates)
	}

	return events, nil
}

func validateICalFormat(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)

	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		previewLen := 100
		if len(trimmed) < previewLen {
			previewLen = len(trimmed)
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", trimmed[:previewLen])
	}

	return nil
}
