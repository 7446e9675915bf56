package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.design/x/hotkey"

	"github.com/borgmon/meet-minder/pkg/audio"
	"github.com/borgmon/meet-minder/pkg/linkres"
	"github.com/borgmon/meet-minder/pkg/models"
	"github.com/borgmon/meet-minder/pkg/platform"
	"github.com/borgmon/meet-minder/pkg/session"
	"github.com/borgmon/meet-minder/pkg/ui/components"
)

// exitFadeDuration is the overlay's bounded exit transition; the state
// machine guards it with its own 2s safety net.
const exitFadeDuration = 200 * time.Millisecond

// alertSurface builds full-screen Fyne alert overlays for the session
// machine.
type alertSurface struct {
	app    fyne.App
	config func() *models.Config
}

func newAlertSurface(app fyne.App, config func() *models.Config) *alertSurface {
	return &alertSurface{app: app, config: config}
}

// ShowOverlay implements session.Surface. The window is constructed on
// the Fyne main thread; the returned overlay handle is usable
// immediately.
func (s *alertSurface) ShowOverlay(event models.Event, link *linkres.ResolvedLink, actions session.Actions) (session.Overlay, error) {
	config := s.config()

	ov := &alertOverlay{app: s.app}

	// Quiet time suppresses the tone, never the overlay itself.
	if !config.IsTimeInQuietTime(time.Now()) {
		ov.player = audio.PlayAlarm()
	}

	fyne.Do(func() {
		window := s.app.NewWindow("Meeting Alert")
		window.SetFullScreen(true)
		window.SetContent(buildOverlayContent(event, link, config, actions))
		window.SetCloseIntercept(actions.Dismiss)
		ov.mu.Lock()
		ov.window = window
		ov.mu.Unlock()
		window.Show()
	})

	ov.registerCmdQPrevention()

	return ov, nil
}

// alertOverlay is one live full-screen alert window.
type alertOverlay struct {
	app    fyne.App
	player *audio.Player

	mu         sync.Mutex
	window     fyne.Window
	cmdQHotkey *hotkey.Hotkey

	teardown sync.Once
}

// EnsureFront implements session.Overlay; called repeatedly by the
// machine's visibility-enforcement loop.
func (ov *alertOverlay) EnsureFront() {
	if !platform.IsAppActive() {
		platform.ActivateApp()
	}
	fyne.Do(func() {
		ov.mu.Lock()
		window := ov.window
		ov.mu.Unlock()
		if window != nil {
			window.Show()
			window.RequestFocus()
		}
	})
}

// BeginExit hides the window, lets the fade period settle and then
// signals completion.
func (ov *alertOverlay) BeginExit(done func()) {
	fyne.Do(func() {
		ov.mu.Lock()
		window := ov.window
		ov.mu.Unlock()
		if window != nil {
			window.Hide()
		}
	})
	ov.stopAlarm()
	time.AfterFunc(exitFadeDuration, done)
}

// Destroy implements session.Overlay; idempotent, safe from any
// goroutine.
func (ov *alertOverlay) Destroy() {
	ov.teardown.Do(func() {
		ov.stopAlarm()

		ov.mu.Lock()
		hk := ov.cmdQHotkey
		ov.cmdQHotkey = nil
		window := ov.window
		ov.window = nil
		ov.mu.Unlock()

		if hk != nil {
			hk.Unregister()
		}
		if window != nil {
			fyne.Do(func() {
				window.Close()
			})
		}
	})
}

func (ov *alertOverlay) stopAlarm() {
	ov.player.Stop()
}

// registerCmdQPrevention swallows Cmd+Q while the overlay is up so the
// quit shortcut cannot bypass the hold-to-dismiss button.
func (ov *alertOverlay) registerCmdQPrevention() {
	go func() {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCmd}, hotkey.KeyQ)
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register Cmd+Q prevention: %v", err)
			return
		}

		ov.mu.Lock()
		ov.cmdQHotkey = hk
		ov.mu.Unlock()

		for range hk.Keydown() {
			log.Println("Cmd+Q blocked - hold the dismiss button to close the alert")
		}
	}()
}

func buildOverlayContent(event models.Event, link *linkres.ResolvedLink, config *models.Config, actions session.Actions) fyne.CanvasObject {
	title := canvas.NewText(event.Title, nil)
	title.TextSize = 32
	title.Alignment = fyne.TextAlignCenter

	timeInfo := fmt.Sprintf("Start: %s\nEnd: %s",
		event.StartTime.Format("3:04 PM"),
		event.EndTime.Format("3:04 PM"))
	timeLabel := widget.NewLabel(timeInfo)
	timeLabel.Alignment = fyne.TextAlignCenter

	description := widget.NewLabel(event.Description)
	description.Wrapping = fyne.TextWrapWord
	description.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewPadded(title),
		timeLabel,
		widget.NewSeparator(),
		container.NewPadded(description),
	)

	if link != nil {
		label := fmt.Sprintf("Join %s Meeting", platformLabel(link.Platform))
		joinButton := widget.NewButton(label, actions.Join)
		joinButton.Importance = widget.HighImportance
		content.Add(container.NewCenter(joinButton))
	}

	content.Add(widget.NewSeparator())

	holdTime := time.Duration(config.HoldTimeSeconds) * time.Second

	buttonRow := container.NewHBox()
	if config.SnoozeTime > 0 {
		opt := session.SnoozeFor(config.SnoozeTime)
		buttonRow.Add(components.NewHoldButton(
			fmt.Sprintf("%s (Hold %ds)", opt.Label(), config.HoldTimeSeconds),
			holdTime,
			func() { actions.Snooze(opt) },
		))
	}
	untilMeeting := session.SnoozeUntilMeetingTime()
	buttonRow.Add(components.NewHoldButton(
		fmt.Sprintf("%s (Hold %ds)", untilMeeting.Label(), config.HoldTimeSeconds),
		holdTime,
		func() { actions.Snooze(untilMeeting) },
	))
	buttonRow.Add(components.NewHoldButton(
		fmt.Sprintf("Close (Hold %ds)", config.HoldTimeSeconds),
		holdTime,
		actions.Dismiss,
	))

	content.Add(buttonRow)

	return container.NewPadded(container.NewCenter(content))
}

func platformLabel(p linkres.Platform) string {
	switch p {
	case linkres.PlatformZoom:
		return "Zoom"
	case linkres.PlatformMeet:
		return "Google Meet"
	case linkres.PlatformTeams:
		return "Teams"
	case linkres.PlatformWebex:
		return "Webex"
	case linkres.PlatformGoToMeeting:
		return "GoToMeeting"
	case linkres.PlatformJitsi:
		return "Jitsi"
	case linkres.PlatformWhereby:
		return "Whereby"
	case linkres.PlatformAround:
		return "Around"
	case linkres.PlatformChime:
		return "Chime"
	case linkres.PlatformBlueJeans:
		return "BlueJeans"
	case linkres.PlatformSkype:
		return "Skype"
	default:
		return "Video"
	}
}
