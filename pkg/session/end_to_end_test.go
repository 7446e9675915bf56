package session

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/meet-minder/pkg/linkres"
	"github.com/borgmon/meet-minder/pkg/models"
	"github.com/borgmon/meet-minder/pkg/schedule"
)

type recordingEnv struct {
	opened []string
}

func (e *recordingEnv) HasHandler(scheme string) bool { return true }

func (e *recordingEnv) OpenURL(u *url.URL) error {
	e.opened = append(e.opened, u.String())
	return nil
}

func (e *recordingEnv) OpenInBrowser(u *url.URL, browser string) error {
	e.opened = append(e.opened, u.String())
	return nil
}

func (e *recordingEnv) CopyToClipboard(text string) error { return nil }

// Exercises the whole alert path: a planned trigger fires, the event
// text resolves to a meeting link, the overlay shows, and Join opens the
// link and retires the session.
func TestMeetingAlertEndToEnd(t *testing.T) {
	env := &recordingEnv{}
	pipeline := linkres.NewPipeline(nil, nil, env)
	surface := &fakeSurface{}

	results := make(chan error, 1)
	machine := NewMachine(surface, pipeline.Open,
		func(event models.Event) *linkres.ResolvedLink {
			return pipeline.Resolve(event.Text())
		},
		func(event models.Event, outcome linkres.OpenOutcome, err error) {
			assert.Contains(t, []linkres.OpenOutcome{linkres.OutcomeOpened, linkres.OutcomeFallback}, outcome)
			results <- err
		},
	)
	defer machine.Shutdown()

	fired := make(chan models.Event, 1)
	scheduler := schedule.NewScheduler(func(event models.Event, offset, drift time.Duration) {
		link := pipeline.Resolve(event.Text())
		require.NotNil(t, link)
		assert.Equal(t, linkres.PlatformZoom, link.Platform)
		assert.Equal(t, "555", link.MeetingID)
		require.NoError(t, machine.RequestShow(event, link))
		fired <- event
	})
	defer scheduler.CancelAll()

	// Trigger lands 50ms out so the test runs in real time.
	start := time.Now().Add(time.Minute + 50*time.Millisecond)
	event := models.Event{
		ID:        "e1",
		Title:     "Standup https://zoom.us/j/555",
		StartTime: start,
		EndTime:   start.Add(15 * time.Minute),
	}

	planned := scheduler.Plan([]models.Event{event}, []int{60}, nil)
	require.Len(t, planned, 1)
	assert.WithinDuration(t, start.Add(-time.Minute), planned[0].At, time.Second)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger never fired")
	}

	snap := machine.Current()
	require.NotNil(t, snap)
	assert.Equal(t, StateShowing, snap.State)
	assert.True(t, snap.HasLink)

	machine.Join()

	select {
	case err := <-results:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("join never completed")
	}

	require.Eventually(t, func() bool {
		return machine.Current() == nil
	}, time.Second, 10*time.Millisecond)
	require.NotEmpty(t, env.opened)
	assert.Contains(t, env.opened[0], "confno=555")
}
