package calendar

import (
	"time"

	"github.com/borgmon/meet-minder/pkg/models"
)

type filterStats struct {
	filteredMissingTime   int
	filteredCancelled     int
	filteredAllDay        int
	filteredOutsideWindow int
	filteredDuplicates    int
}

func (s *filterStats) total() int {
	return s.filteredMissingTime + s.filteredCancelled + s.filteredAllDay +
		s.filteredOutsideWindow + s.filteredDuplicates
}

func shouldIncludeEvent(event models.Event, now, horizon time.Time, stats *filterStats) bool {
	if event.StartTime.IsZero() || event.EndTime.IsZero() {
		stats.filteredMissingTime++
		return false
	}

	if event.Status == "CANCELLED" {
		stats.filteredCancelled++
		return false
	}

	if isAllDayEvent(event) {
		stats.filteredAllDay++
		return false
	}

	if event.StartTime.Before(horizon) && event.EndTime.After(now) {
		return true
	}

	stats.filteredOutsideWindow++
	return false
}

func isAllDayEvent(event models.Event) bool {
	startDate := event.StartTime.Format("2006-01-02")
	endDate := event.EndTime.Format("2006-01-02")
	duration := event.EndTime.Sub(event.StartTime)

	// An event is considered all-day if it spans multiple days and is >= 24 hours
	return startDate != endDate && duration >= 24*time.Hour
}
