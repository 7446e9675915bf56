package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/borgmon/meet-minder/pkg/linkres"
	"github.com/borgmon/meet-minder/pkg/models"
)

const (
	// Visibility enforcement re-asserts overlay focus every tick for
	// the enforcement window, compensating for other full-screen
	// applications stealing focus right as the alert appears.
	visibilityInterval = 50 * time.Millisecond
	visibilityWindow   = 500 * time.Millisecond

	// exitTimeout forces a dismissal to complete if the surface's exit
	// transition never signals. A timeout here is a forced success
	// path, not an error.
	exitTimeout = 2 * time.Second
)

// Actions are the user controls a surface wires to its overlay.
type Actions struct {
	Join    func()
	Snooze  func(opt SnoozeOption)
	Dismiss func()
}

// Surface creates and destroys alert overlays. ShowOverlay must not
// invoke any of the actions synchronously; they are for later user
// input.
type Surface interface {
	ShowOverlay(event models.Event, link *linkres.ResolvedLink, actions Actions) (Overlay, error)
}

// Overlay is one live on-screen alert owned by a session.
type Overlay interface {
	// EnsureFront re-asserts topmost/focus ownership.
	EnsureFront()
	// BeginExit starts the bounded exit transition and calls done when
	// it settles. The machine guards it with a hard timeout.
	BeginExit(done func())
	// Destroy tears the overlay down synchronously.
	Destroy()
}

// OpenFunc hands a resolved link to the link resolution pipeline.
type OpenFunc func(link *linkres.ResolvedLink) (linkres.OpenOutcome, error)

// ResolveFunc re-resolves an event's link, used when a snoozed alert
// re-fires (the event text could have changed since).
type ResolveFunc func(event models.Event) *linkres.ResolvedLink

// JoinResultFunc observes the outcome of a join attempt.
type JoinResultFunc func(event models.Event, outcome linkres.OpenOutcome, err error)

// Machine owns at most one active alert overlay and serializes every
// state transition behind one mutex. Timer callbacks re-enter through
// the mutex and check that their owning session is still current before
// acting, so stale fires are absorbed as no-ops.
type Machine struct {
	mu sync.Mutex

	surface      Surface
	open         OpenFunc
	resolve      ResolveFunc
	onJoinResult JoinResultFunc

	current        *Session
	overlay        Overlay
	stopVisibility chan struct{}
	exitTimer      *time.Timer
	snoozeTimers   map[string]*time.Timer

	now func() time.Time
}

// NewMachine wires a machine to its presentation surface and link
// pipeline. resolve and onJoinResult are optional.
func NewMachine(surface Surface, open OpenFunc, resolve ResolveFunc, onJoinResult JoinResultFunc) *Machine {
	return &Machine{
		surface:      surface,
		open:         open,
		resolve:      resolve,
		onJoinResult: onJoinResult,
		snoozeTimers: make(map[string]*time.Timer),
		now:          time.Now,
	}
}

// RequestShow presents a new alert. Any existing non-terminal session is
// force-dismissed first, synchronously, before the new session is
// constructed; two overlays never coexist.
func (m *Machine) RequestShow(event models.Event, link *linkres.ResolvedLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceDismissLocked()

	sess := &Session{
		ID:        uuid.New().String(),
		Event:     event,
		Link:      link,
		CreatedAt: m.now(),
		state:     StateShowing,
	}

	overlay, err := m.surface.ShowOverlay(event, link, Actions{
		Join:    m.Join,
		Snooze:  m.Snooze,
		Dismiss: m.Dismiss,
	})
	if err != nil {
		return fmt.Errorf("failed to create alert overlay: %w", err)
	}

	m.current = sess
	m.overlay = overlay
	m.startVisibilityLocked(sess)

	return nil
}

// Join cancels visibility enforcement immediately (so it cannot fight
// the window teardown), hands the link to the pipeline asynchronously
// and dismisses once the open attempt completes either way. A no-op
// unless the session is showing.
func (m *Machine) Join() {
	m.mu.Lock()
	sess := m.current
	if sess == nil || sess.state != StateShowing {
		m.mu.Unlock()
		return
	}
	m.stopVisibilityLocked()
	sess.state = StateDismissing
	link := sess.Link
	m.mu.Unlock()

	go func() {
		var outcome linkres.OpenOutcome
		var err error
		if link != nil && m.open != nil {
			outcome, err = m.open(link)
		}
		if m.onJoinResult != nil {
			m.onJoinResult(sess.Event, outcome, err)
		}
		m.completeDismiss(sess)
	}()
}

// Snooze dismisses the alert and arms a timer to re-show it. The link is
// re-resolved at re-show time. A no-op unless the session is showing.
func (m *Machine) Snooze(opt SnoozeOption) {
	m.mu.Lock()
	sess := m.current
	if sess == nil || sess.state != StateShowing {
		m.mu.Unlock()
		return
	}
	m.stopVisibilityLocked()
	sess.state = StateDismissing

	delay := opt.delay(sess.Event.StartTime, m.now())
	m.armSnoozeLocked(sess, delay)
	log.Printf("Alert snoozed for event %q, re-arming in %v", sess.Event.Title, delay)

	overlay := m.overlay
	m.armExitTimeoutLocked(sess)
	m.mu.Unlock()

	overlay.BeginExit(func() { m.completeDismiss(sess) })
}

// Dismiss runs the user-initiated exit transition, guarded by the exit
// timeout safety net. Re-entrant calls and calls during dismissal are
// no-ops.
func (m *Machine) Dismiss() {
	m.mu.Lock()
	sess := m.current
	if sess == nil || sess.state != StateShowing {
		m.mu.Unlock()
		return
	}
	m.stopVisibilityLocked()
	sess.state = StateDismissing
	overlay := m.overlay
	m.armExitTimeoutLocked(sess)
	m.mu.Unlock()

	overlay.BeginExit(func() { m.completeDismiss(sess) })
}

// ForceDismiss terminates the current session synchronously, skipping
// the exit transition. Safe to call from any context and at any time.
func (m *Machine) ForceDismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forceDismissLocked()
}

// CancelSnooze drops a pending snooze re-arm for an event, e.g. when the
// user skips the occurrence after snoozing it.
func (m *Machine) CancelSnooze(eventID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.snoozeTimers[eventID]; ok {
		t.Stop()
		delete(m.snoozeTimers, eventID)
	}
}

// Shutdown force-dismisses any active session and drops every pending
// snooze timer.
func (m *Machine) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceDismissLocked()
	for id, t := range m.snoozeTimers {
		t.Stop()
		delete(m.snoozeTimers, id)
	}
}

// Current returns a read-only snapshot of the active session, or nil
// when the machine is idle.
func (m *Machine) Current() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	return &Snapshot{
		ID:        m.current.ID,
		EventID:   m.current.Event.ID,
		Title:     m.current.Event.Title,
		State:     m.current.state,
		CreatedAt: m.current.CreatedAt,
		HasLink:   m.current.Link != nil,
	}
}

// completeDismiss finalizes a dismissal begun by Join, Snooze or
// Dismiss. It is called from exit-transition callbacks and the exit
// timeout, possibly both; whichever arrives second finds the session no
// longer current and does nothing.
func (m *Machine) completeDismiss(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != sess {
		return
	}
	m.forceDismissLocked()
}

// forceDismissLocked releases every resource the current session owns:
// visibility enforcement, exit timer, overlay. Idempotent.
func (m *Machine) forceDismissLocked() {
	sess := m.current
	if sess == nil {
		return
	}

	m.stopVisibilityLocked()
	if m.exitTimer != nil {
		m.exitTimer.Stop()
		m.exitTimer = nil
	}
	if m.overlay != nil {
		m.overlay.Destroy()
		m.overlay = nil
	}

	sess.state = StateDismissed
	m.current = nil
}

func (m *Machine) armExitTimeoutLocked(sess *Session) {
	if m.exitTimer != nil {
		m.exitTimer.Stop()
	}
	m.exitTimer = time.AfterFunc(exitTimeout, func() { m.completeDismiss(sess) })
}

func (m *Machine) armSnoozeLocked(sess *Session, delay time.Duration) {
	event := sess.Event
	if existing, ok := m.snoozeTimers[event.ID]; ok {
		existing.Stop()
	}

	m.snoozeTimers[event.ID] = time.AfterFunc(delay, func() {
		m.mu.Lock()
		delete(m.snoozeTimers, event.ID)
		m.mu.Unlock()

		link := sess.Link
		if m.resolve != nil {
			link = m.resolve(event)
		}
		if err := m.RequestShow(event, link); err != nil {
			log.Printf("Failed to re-show snoozed alert for %q: %v", event.Title, err)
		}
	})
}

// startVisibilityLocked arms the short-lived enforcement loop that keeps
// the overlay frontmost. The loop checks that its owning session is
// still current and showing before each assertion and stops itself after
// the enforcement window.
func (m *Machine) startVisibilityLocked(sess *Session) {
	stop := make(chan struct{})
	m.stopVisibility = stop

	go func() {
		ticker := time.NewTicker(visibilityInterval)
		defer ticker.Stop()
		deadline := time.After(visibilityWindow)

		for {
			select {
			case <-stop:
				return
			case <-deadline:
				return
			case <-ticker.C:
				m.mu.Lock()
				live := m.current == sess && sess.state == StateShowing
				overlay := m.overlay
				m.mu.Unlock()

				if !live || overlay == nil {
					return
				}
				overlay.EnsureFront()
			}
		}
	}()
}

func (m *Machine) stopVisibilityLocked() {
	if m.stopVisibility != nil {
		close(m.stopVisibility)
		m.stopVisibility = nil
	}
}
