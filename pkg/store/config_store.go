package store

import (
	"encoding/json"

	"fyne.io/fyne/v2"

	"github.com/borgmon/meet-minder/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences.
// It is read on every plan/resolve, never cached by the core.
type ConfigStore struct {
	app fyne.App
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(app fyne.App) *ConfigStore {
	return &ConfigStore{app: app}
}

// Load loads configuration from preferences
func (cs *ConfigStore) Load() *models.Config {
	prefs := cs.app.Preferences()

	config := &models.Config{
		AutoStart:        prefs.BoolWithFallback("auto_start", false),
		UpdateInterval:   prefs.IntWithFallback("update_interval", 30),
		ReminderOffsets:  prefs.StringWithFallback("reminder_offsets", "60"),
		SnoozeTime:       prefs.IntWithFallback("snooze_time", 5),
		NotifyUnaccepted: prefs.BoolWithFallback("notify_unaccepted", false),
		HoldTimeSeconds:  prefs.IntWithFallback("hold_time_seconds", 3),
		Browser:          prefs.String("browser"),
		GlobalStrategy:   prefs.StringWithFallback("global_strategy", "system"),
	}

	config.ICalSources = loadJSON[[]models.ICalSource](prefs, "ical_sources")
	config.QuietTimeRanges = loadJSON[[]models.TimeRange](prefs, "quiet_time_ranges")
	config.PlatformStrategies = loadJSON[map[string]string](prefs, "platform_strategies")
	if config.PlatformStrategies == nil {
		config.PlatformStrategies = map[string]string{}
	}

	return config
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	prefs := cs.app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetInt("update_interval", config.UpdateInterval)
	prefs.SetString("reminder_offsets", config.ReminderOffsets)
	prefs.SetInt("snooze_time", config.SnoozeTime)
	prefs.SetBool("notify_unaccepted", config.NotifyUnaccepted)
	prefs.SetInt("hold_time_seconds", config.HoldTimeSeconds)
	prefs.SetString("browser", config.Browser)
	prefs.SetString("global_strategy", config.GlobalStrategy)

	saveJSON(prefs, "ical_sources", config.ICalSources)
	saveJSON(prefs, "quiet_time_ranges", config.QuietTimeRanges)
	saveJSON(prefs, "platform_strategies", config.PlatformStrategies)
}

func loadJSON[T any](prefs fyne.Preferences, key string) T {
	var value T
	raw := prefs.String(key)
	if raw == "" {
		return value
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		var zero T
		return zero
	}
	return value
}

func saveJSON(prefs fyne.Preferences, key string, value any) {
	if raw, err := json.Marshal(value); err == nil {
		prefs.SetString(key, string(raw))
	}
}
