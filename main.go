package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/robfig/cron/v3"

	"github.com/borgmon/meet-minder/pkg/bus"
	"github.com/borgmon/meet-minder/pkg/calendar"
	"github.com/borgmon/meet-minder/pkg/linkres"
	"github.com/borgmon/meet-minder/pkg/models"
	"github.com/borgmon/meet-minder/pkg/platform"
	"github.com/borgmon/meet-minder/pkg/schedule"
	"github.com/borgmon/meet-minder/pkg/session"
	"github.com/borgmon/meet-minder/pkg/store"
)

// MeetMinder wires the components together. Everything is constructed
// once here and passed down explicitly; there are no ambient singletons
// beyond the Fyne app itself.
type MeetMinder struct {
	app         fyne.App
	configStore *store.ConfigStore
	skips       *store.SkipStore
	pipeline    *linkres.Pipeline
	scheduler   *schedule.Scheduler
	sessions    *session.Machine
	bus         *bus.Bus
	cron        *cron.Cron
	syncJob     cron.EntryID

	mu     sync.RWMutex
	config *models.Config
	events []models.Event
}

func main() {
	mm := &MeetMinder{
		app: app.NewWithID("com.borgmon.meet-minder"),
		bus: bus.New(),
	}

	if err := mm.initialize(); err != nil {
		log.Fatal(err)
	}

	mm.run()
}

func (mm *MeetMinder) initialize() error {
	mm.configStore = store.NewConfigStore(mm.app)
	mm.config = mm.configStore.Load()

	if err := setupAutostart(mm.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}
	mm.configStore.Save(mm.config)

	dataDir, err := ensureDataDir()
	if err != nil {
		return err
	}

	rules, err := linkres.LoadRules(filepath.Join(dataDir, "link_rules.yaml"))
	if err != nil {
		// A broken rules file would reject every host; that must be
		// visible to the user, not silently degrade every join.
		log.Printf("Link rules file rejected, using defaults: %v", err)
		mm.app.SendNotification(fyne.NewNotification("Meet Minder",
			"Your link_rules.yaml could not be parsed; built-in link policy is in effect."))
		rules = linkres.DefaultRules()
	}

	mm.skips, err = store.OpenSkipStore(filepath.Join(dataDir, "skips.db"))
	if err != nil {
		return err
	}

	mm.pipeline = linkres.NewPipeline(rules, &configSettings{mm: mm}, newDesktopEnv(mm.app))

	surface := newAlertSurface(mm.app, mm.currentConfig)
	mm.sessions = session.NewMachine(
		surface,
		mm.pipeline.Open,
		func(event models.Event) *linkres.ResolvedLink {
			return mm.pipeline.Resolve(event.Text())
		},
		mm.onJoinResult,
	)

	mm.scheduler = schedule.NewScheduler(mm.onTriggerFire)

	mm.bus.Subscribe(bus.TopicEventsUpdated, mm.replan)
	mm.bus.Subscribe(bus.TopicSkipsChanged, mm.replan)
	mm.bus.Subscribe(bus.TopicConfigChanged, func() {
		mm.replan()
		mm.restartSyncJob()
	})

	mm.setupSystemTray()
	mm.startCron()

	return nil
}

func (mm *MeetMinder) run() {
	mm.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
	})
	mm.app.Run()
}

func ensureDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	dir := filepath.Join(base, "meet-minder")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return dir, nil
}

// currentConfig returns the latest loaded configuration snapshot.
func (mm *MeetMinder) currentConfig() *models.Config {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.config
}

func (mm *MeetMinder) currentEvents() []models.Event {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.events
}

// startCron arms the periodic jobs: calendar resync and skip-record
// pruning. An immediate first sync runs in the background so the tray
// has data right away.
func (mm *MeetMinder) startCron() {
	mm.cron = cron.New()

	config := mm.currentConfig()
	spec := fmt.Sprintf("@every %dm", max(config.UpdateInterval, 1))
	id, err := mm.cron.AddFunc(spec, mm.syncEvents)
	if err != nil {
		log.Printf("Failed to schedule calendar sync: %v", err)
	}
	mm.syncJob = id

	if _, err := mm.cron.AddFunc("@daily", func() {
		if err := mm.skips.PruneBefore(time.Now().Add(-48 * time.Hour)); err != nil {
			log.Printf("Skip prune failed: %v", err)
		}
	}); err != nil {
		log.Printf("Failed to schedule skip prune: %v", err)
	}

	mm.cron.Start()

	go mm.syncEvents()
}

// restartSyncJob re-arms the sync job after an interval change.
func (mm *MeetMinder) restartSyncJob() {
	if mm.cron == nil {
		return
	}
	mm.cron.Remove(mm.syncJob)

	config := mm.currentConfig()
	spec := fmt.Sprintf("@every %dm", max(config.UpdateInterval, 1))
	id, err := mm.cron.AddFunc(spec, mm.syncEvents)
	if err != nil {
		log.Printf("Failed to reschedule calendar sync: %v", err)
		return
	}
	mm.syncJob = id
}

// syncEvents refreshes the event snapshot from every configured source
// and announces the change on the bus.
func (mm *MeetMinder) syncEvents() {
	config := mm.currentConfig()
	if config.NeedsConfiguration() {
		log.Println("No iCal sources configured")
		return
	}

	allEvents := []models.Event{}
	for _, source := range config.ICalSources {
		if !source.Validate() {
			continue
		}

		events, err := calendar.FetchEvents(source)
		if err != nil {
			log.Printf("Error fetching iCal source '%s' (%s): %v", source.Name, source.URL, err)
			continue
		}

		allEvents = append(allEvents, events...)
		log.Printf("Synced %d events from '%s'", len(events), source.Name)
	}

	mm.mu.Lock()
	mm.events = allEvents
	mm.mu.Unlock()

	mm.bus.Publish(bus.TopicEventsUpdated)
}

// replan recomputes the trigger plan from the current snapshots.
// Settings are re-read here, not cached, so offset changes apply on the
// next plan.
func (mm *MeetMinder) replan() {
	mm.mu.Lock()
	mm.config = mm.configStore.Load()
	mm.mu.Unlock()

	config := mm.currentConfig()
	triggers := mm.scheduler.Plan(mm.currentEvents(), config.OffsetSeconds(), mm.skips)
	log.Printf("Armed %d reminder triggers", len(triggers))

	mm.updateSystemTrayMenu()
}

// onTriggerFire runs when a reminder trigger reaches its instant. The
// link is resolved fresh on every fire; stale resolutions are never
// reused.
func (mm *MeetMinder) onTriggerFire(event models.Event, offset, drift time.Duration) {
	config := mm.currentConfig()
	if !config.NotifyUnaccepted && event.Status == "NEEDS-ACTION" {
		log.Printf("Suppressing alert for unaccepted event %q", event.Title)
		return
	}

	link := mm.pipeline.Resolve(event.Text())
	if err := mm.sessions.RequestShow(event, link); err != nil {
		log.Printf("Failed to show alert for %q: %v", event.Title, err)
		return
	}

	log.Printf("Alert shown for %q (offset %v, drift %v)", event.Title, offset, drift)
	mm.updateSystemTrayMenu()
}

func (mm *MeetMinder) onJoinResult(event models.Event, outcome linkres.OpenOutcome, err error) {
	switch {
	case err != nil:
		log.Printf("Join failed for %q: %v", event.Title, err)
		mm.app.SendNotification(fyne.NewNotification("Meet Minder",
			"Could not open the meeting link for "+event.Title))
	case outcome == linkres.OutcomeFallback:
		log.Printf("Join fell back to clipboard for %q", event.Title)
		mm.app.SendNotification(fyne.NewNotification("Meet Minder",
			"Meeting link copied to clipboard"))
	default:
		log.Printf("Joined %q", event.Title)
	}
}

// skipOccurrence records a skip for the event's day and cancels any
// pending snooze for it.
func (mm *MeetMinder) skipOccurrence(event models.Event) {
	if err := mm.skips.Skip(event.ID, event.StartDay()); err != nil {
		log.Printf("Failed to skip %q: %v", event.Title, err)
		return
	}
	mm.sessions.CancelSnooze(event.ID)
	mm.bus.Publish(bus.TopicSkipsChanged)
}

func (mm *MeetMinder) quit() {
	if mm.cron != nil {
		ctx := mm.cron.Stop()
		<-ctx.Done()
	}
	mm.scheduler.CancelAll()
	mm.sessions.Shutdown()
	if mm.skips != nil {
		mm.skips.Close()
	}
	mm.app.Quit()
}

// configSettings adapts the stored configuration to the pipeline's
// SettingsSource.
type configSettings struct {
	mm *MeetMinder
}

func (cs *configSettings) StrategyFor(p linkres.Platform) (linkres.OpenStrategy, bool) {
	config := cs.mm.currentConfig()
	if raw, ok := config.PlatformStrategies[string(p)]; ok {
		switch linkres.OpenStrategy(raw) {
		case linkres.StrategyPreferApp, linkres.StrategyAlwaysWeb, linkres.StrategySystemDefault:
			return linkres.OpenStrategy(raw), true
		}
	}
	return "", false
}

func (cs *configSettings) GlobalStrategy() linkres.OpenStrategy {
	return linkres.OpenStrategy(cs.mm.currentConfig().GlobalStrategy)
}

func (cs *configSettings) Browser() string {
	return cs.mm.currentConfig().Browser
}
