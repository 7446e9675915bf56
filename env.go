package main

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"fyne.io/fyne/v2"

	"github.com/borgmon/meet-minder/pkg/linkres"
)

// desktopEnv implements linkres.Environment on top of the OS and the
// Fyne app.
type desktopEnv struct {
	app fyne.App
}

func newDesktopEnv(app fyne.App) *desktopEnv {
	return &desktopEnv{app: app}
}

// HasHandler reports whether a handler is registered for a URL scheme.
// Only Linux exposes a cheap query; elsewhere the open call itself is
// the check and failures fall through to the web path.
func (e *desktopEnv) HasHandler(scheme string) bool {
	if scheme == "http" || scheme == "https" {
		return true
	}

	switch runtime.GOOS {
	case "linux":
		out, err := exec.Command("xdg-mime", "query", "default", "x-scheme-handler/"+scheme).Output()
		return err == nil && len(bytes.TrimSpace(out)) > 0
	default:
		return true
	}
}

// OpenURL hands a URL to the OS handler for its scheme.
func (e *desktopEnv) OpenURL(u *url.URL) error {
	if u.Scheme == "http" || u.Scheme == "https" {
		return e.app.OpenURL(u)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u.String()).Run()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u.String()).Run()
	default:
		return exec.Command("xdg-open", u.String()).Run()
	}
}

// OpenInBrowser opens a URL in a specific browser, or the system
// default when browser is empty.
func (e *desktopEnv) OpenInBrowser(u *url.URL, browser string) error {
	if browser == "" {
		return e.OpenURL(u)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", "-a", browser, u.String()).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", browser, u.String()).Run()
	default:
		if _, err := exec.LookPath(browser); err != nil {
			return fmt.Errorf("browser %q not found: %w", browser, err)
		}
		return exec.Command(browser, u.String()).Run()
	}
}

// CopyToClipboard places text on the system clipboard.
func (e *desktopEnv) CopyToClipboard(text string) error {
	clipboard := e.app.Clipboard()
	if clipboard == nil {
		return fmt.Errorf("clipboard unavailable")
	}
	clipboard.SetContent(text)
	return nil
}

var _ linkres.Environment = (*desktopEnv)(nil)
