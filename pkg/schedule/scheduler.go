package schedule

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/borgmon/meet-minder/pkg/models"
)

// driftTolerance is the largest fire-time deviation considered normal.
// Larger drift is logged as an anomaly but the alert still fires.
const driftTolerance = time.Second

// FireFunc is invoked exactly once per trigger, after the trigger has
// been removed from the live set. drift is actual fire instant minus
// scheduled instant.
type FireFunc func(event models.Event, offset time.Duration, drift time.Duration)

type armedTrigger struct {
	trigger Trigger
	event   models.Event
	timer   *time.Timer
}

// Scheduler owns the set of armed reminder triggers. All bookkeeping is
// serialized behind one mutex; timer callbacks re-enter through that
// mutex before touching shared state. The scheduler is stateless with
// respect to why Plan is called: every call fully disarms the previous
// plan before arming the new one.
type Scheduler struct {
	mu    sync.Mutex
	armed map[string]*armedTrigger
	fire  FireFunc

	now func() time.Time
}

// NewScheduler creates a scheduler delivering fires to the given
// callback. The callback runs outside the scheduler lock, so it may
// replan synchronously without deadlocking or observing its own trigger.
func NewScheduler(fire FireFunc) *Scheduler {
	return &Scheduler{
		armed: make(map[string]*armedTrigger),
		fire:  fire,
		now:   time.Now,
	}
}

// Plan computes and arms triggers for every (event, offset) pair,
// discarding past instants and skipped occurrences. Any previously
// armed triggers are disarmed first, so calling Plan is idempotent:
// no duplicate firings, no orphaned timers.
func (s *Scheduler) Plan(events []models.Event, offsetSeconds []int, skips SkipLookup) []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmAllLocked()

	now := s.now()
	offsets := dedupeOffsets(offsetSeconds)

	planned := []Trigger{}
	for _, event := range events {
		if skips != nil && skips.IsSkipped(event.ID, event.StartDay()) {
			continue
		}

		for _, offset := range offsets {
			at := event.StartTime.Add(-offset)
			if !at.After(now) {
				continue
			}

			trigger := Trigger{
				ID:      TriggerID(event.ID, offset),
				EventID: event.ID,
				Offset:  offset,
				At:      at,
			}
			if _, exists := s.armed[trigger.ID]; exists {
				continue
			}

			id := trigger.ID
			s.armed[id] = &armedTrigger{
				trigger: trigger,
				event:   event,
				timer:   time.AfterFunc(at.Sub(now), func() { s.fireTrigger(id) }),
			}
			planned = append(planned, trigger)
		}
	}

	sort.Slice(planned, func(i, j int) bool { return planned[i].At.Before(planned[j].At) })
	return planned
}

// fireTrigger runs on the timer goroutine. The trigger is removed from
// the live set before the callback is invoked, so a synchronous replan
// from inside the callback never observes it.
func (s *Scheduler) fireTrigger(id string) {
	s.mu.Lock()
	armed, ok := s.armed[id]
	if !ok {
		// Cancelled between timer fire and lock acquisition.
		s.mu.Unlock()
		return
	}
	delete(s.armed, id)
	drift := s.now().Sub(armed.trigger.At)
	s.mu.Unlock()

	if drift > driftTolerance || drift < -driftTolerance {
		log.Printf("Trigger %s fired with %v drift", id, drift)
	}

	if s.fire != nil {
		s.fire(armed.event, armed.trigger.Offset, drift)
	}
}

// CancelOne disarms a single trigger. Cancelling a trigger that already
// fired or was already cancelled is a no-op.
func (s *Scheduler) CancelOne(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if armed, ok := s.armed[id]; ok {
		armed.timer.Stop()
		delete(s.armed, id)
	}
}

// CancelAll disarms every armed trigger. Safe to call from any context,
// including from within a fire callback.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmAllLocked()
}

func (s *Scheduler) disarmAllLocked() {
	for id, armed := range s.armed {
		armed.timer.Stop()
		delete(s.armed, id)
	}
}

// Armed returns a snapshot of the live trigger set sorted by fire time.
func (s *Scheduler) Armed() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggers := make([]Trigger, 0, len(s.armed))
	for _, armed := range s.armed {
		triggers = append(triggers, armed.trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i].At.Before(triggers[j].At) })
	return triggers
}

// ArmedCount returns the number of live triggers.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// EventFor returns the event snapshot held for an armed trigger.
func (s *Scheduler) EventFor(id string) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if armed, ok := s.armed[id]; ok {
		return armed.event, true
	}
	return models.Event{}, false
}

func dedupeOffsets(offsetSeconds []int) []time.Duration {
	seen := make(map[int]bool)
	offsets := []time.Duration{}
	for _, sec := range offsetSeconds {
		if sec < 0 || seen[sec] {
			continue
		}
		seen[sec] = true
		offsets = append(offsets, time.Duration(sec)*time.Second)
	}
	return offsets
}
