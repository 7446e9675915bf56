package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	AutoStart          bool              `json:"auto_start"`
	ICalSources        []ICalSource      `json:"ical_sources"`
	UpdateInterval     int               `json:"update_interval"`     // calendar resync interval, minutes
	ReminderOffsets    string            `json:"reminder_offsets"`    // comma-separated seconds before start
	SnoozeTime         int               `json:"snooze_time"`         // fixed snooze preset, minutes
	NotifyUnaccepted   bool              `json:"notify_unaccepted"`   // alert for NEEDS-ACTION events
	HoldTimeSeconds    int               `json:"hold_time_seconds"`   // button hold time on the overlay
	QuietTimeRanges    []TimeRange       `json:"quiet_time_ranges"`   // ranges where the alarm tone is muted
	Browser            string            `json:"browser"`             // browser for web opens, empty = system default
	GlobalStrategy     string            `json:"global_strategy"`     // "app", "web" or "system"
	PlatformStrategies map[string]string `json:"platform_strategies"` // per-platform strategy overrides
}

// ICalSource represents a named iCal calendar source
type ICalSource struct {
	ID   string `json:"id"`   // Unique identifier
	Name string `json:"name"` // Display name
	URL  string `json:"url"`  // iCal URL
}

// TimeRange represents a time range within a day
type TimeRange struct {
	StartHour   int `json:"start_hour"`   // 0-23
	StartMinute int `json:"start_minute"` // 0-59
	EndHour     int `json:"end_hour"`     // 0-23
	EndMinute   int `json:"end_minute"`   // 0-59
}

// NeedsConfiguration returns true if the config needs initial setup
func (c *Config) NeedsConfiguration() bool {
	return len(c.ICalSources) == 0
}

// OffsetSeconds parses the configured reminder offsets. Malformed and
// negative entries are skipped, duplicates collapse, and the result is
// sorted ascending. An empty or fully malformed config falls back to
// the default 60 second lead.
func (c *Config) OffsetSeconds() []int {
	seen := make(map[int]bool)
	offsets := []int{}

	for _, part := range strings.Split(c.ReminderOffsets, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sec, err := strconv.Atoi(part)
		if err != nil || sec < 0 || seen[sec] {
			continue
		}
		seen[sec] = true
		offsets = append(offsets, sec)
	}

	if len(offsets) == 0 {
		return []int{60}
	}

	sort.Ints(offsets)
	return offsets
}

// IsTimeInQuietTime returns true if the given time is in a quiet time range
func (c *Config) IsTimeInQuietTime(t time.Time) bool {
	if len(c.QuietTimeRanges) == 0 {
		return false
	}

	currentMinutes := t.Hour()*60 + t.Minute()

	for _, tr := range c.QuietTimeRanges {
		startMinutes := tr.StartHour*60 + tr.StartMinute
		endMinutes := tr.EndHour*60 + tr.EndMinute

		// Handle overnight ranges (e.g., 22:00 to 08:00)
		if endMinutes < startMinutes {
			if currentMinutes >= startMinutes || currentMinutes < endMinutes {
				return true
			}
		} else {
			if currentMinutes >= startMinutes && currentMinutes < endMinutes {
				return true
			}
		}
	}

	return false
}

// Validate checks if the iCal source has required fields
func (s *ICalSource) Validate() bool {
	return s.Name != "" && s.URL != ""
}
