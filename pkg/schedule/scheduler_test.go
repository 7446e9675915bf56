package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/meet-minder/pkg/models"
)

type fakeSkips struct {
	skipped map[string]bool
}

func (f *fakeSkips) IsSkipped(eventID string, day time.Time) bool {
	return f.skipped[eventID]
}

type fireRecorder struct {
	mu    sync.Mutex
	fires []string
	ch    chan string
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{ch: make(chan string, 16)}
}

func (r *fireRecorder) fire(event models.Event, offset, drift time.Duration) {
	r.mu.Lock()
	r.fires = append(r.fires, TriggerID(event.ID, offset))
	r.mu.Unlock()
	r.ch <- TriggerID(event.ID, offset)
}

func (r *fireRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fires)
}

func testEvent(id string, start time.Time) models.Event {
	return models.Event{
		ID:        id,
		Title:     "Meeting " + id,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
}

func TestPlanArmsFutureTriggersOnly(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	events := []models.Event{
		testEvent("future", now.Add(10*time.Minute)),
		testEvent("past", now.Add(-10*time.Minute)),
		testEvent("boundary", now.Add(30*time.Second)), // 60s offset puts it in the past
	}

	planned := s.Plan(events, []int{60}, nil)

	require.Len(t, planned, 1)
	assert.Equal(t, TriggerID("future", time.Minute), planned[0].ID)
	assert.Equal(t, 1, s.ArmedCount())
}

func TestPlanMultipleOffsetsPerEvent(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	planned := s.Plan([]models.Event{testEvent("e1", now.Add(time.Hour))}, []int{60, 300, 60, -5}, nil)

	require.Len(t, planned, 2, "duplicate and negative offsets collapse")
	// Sorted by fire instant: the larger offset fires first.
	assert.Equal(t, TriggerID("e1", 5*time.Minute), planned[0].ID)
	assert.Equal(t, TriggerID("e1", time.Minute), planned[1].ID)
}

func TestPlanIsIdempotent(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	events := []models.Event{
		testEvent("e1", now.Add(time.Hour)),
		testEvent("e2", now.Add(2*time.Hour)),
	}

	for i := 0; i < 5; i++ {
		s.Plan(events, []int{60, 300}, nil)
	}

	assert.Equal(t, 4, s.ArmedCount(), "replanning never accumulates timers")
}

func TestPlanSuppressesSkippedOccurrences(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	events := []models.Event{
		testEvent("kept", now.Add(time.Hour)),
		testEvent("skipped", now.Add(time.Hour)),
	}
	skips := &fakeSkips{skipped: map[string]bool{"skipped": true}}

	planned := s.Plan(events, []int{60}, skips)

	require.Len(t, planned, 1)
	assert.Equal(t, "kept", planned[0].EventID)
}

func TestTriggerFiresExactlyOnce(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	start := time.Now().Add(time.Minute + 50*time.Millisecond)
	s.Plan([]models.Event{testEvent("e1", start)}, []int{60}, nil)

	select {
	case id := <-rec.ch:
		assert.Equal(t, TriggerID("e1", time.Minute), id)
	case <-time.After(2 * time.Second):
		t.Fatal("trigger never fired")
	}

	// The fired trigger left the live set and must not fire again.
	assert.Equal(t, 0, s.ArmedCount())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestCancelOne(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	planned := s.Plan([]models.Event{testEvent("e1", now.Add(time.Hour))}, []int{60}, nil)
	require.Len(t, planned, 1)

	s.CancelOne(planned[0].ID)
	assert.Equal(t, 0, s.ArmedCount())

	// Cancelling again, or cancelling an unknown ID, is a no-op.
	s.CancelOne(planned[0].ID)
	s.CancelOne("never-existed")
	assert.Equal(t, 0, s.ArmedCount())
}

func TestCancelAllSilencesPendingFires(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)

	start := time.Now().Add(time.Minute + 30*time.Millisecond)
	s.Plan([]models.Event{
		testEvent("e1", start),
		testEvent("e2", start),
	}, []int{60}, nil)
	require.Equal(t, 2, s.ArmedCount())

	s.CancelAll()
	assert.Equal(t, 0, s.ArmedCount())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, rec.count(), "cancelled triggers must not fire")
}

func TestEventFor(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	planned := s.Plan([]models.Event{testEvent("e1", now.Add(time.Hour))}, []int{60}, nil)
	require.Len(t, planned, 1)

	event, ok := s.EventFor(planned[0].ID)
	require.True(t, ok)
	assert.Equal(t, "e1", event.ID)

	_, ok = s.EventFor("missing")
	assert.False(t, ok)
}

func TestArmedSortedByFireTime(t *testing.T) {
	rec := newFireRecorder()
	s := NewScheduler(rec.fire)
	defer s.CancelAll()

	now := time.Now()
	s.Plan([]models.Event{
		testEvent("late", now.Add(3*time.Hour)),
		testEvent("early", now.Add(time.Hour)),
	}, []int{60}, nil)

	armed := s.Armed()
	require.Len(t, armed, 2)
	assert.Equal(t, "early", armed[0].EventID)
	assert.Equal(t, "late", armed[1].EventID)
}

func TestTriggerID(t *testing.T) {
	assert.Equal(t, "uid-60", TriggerID("uid", time.Minute))
	assert.Equal(t, "uid-0", TriggerID("uid", 0))
}
