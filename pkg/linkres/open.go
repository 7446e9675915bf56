package linkres

import (
	"errors"
	"fmt"
	"log"
	"net/url"
)

// ErrOpenFailed is returned only when every fallback is exhausted: no
// deep link, no browser, no clipboard.
var ErrOpenFailed = errors.New("unable to open link")

// Environment abstracts the operating system operations the pipeline
// needs. Implementations may block; they are called off the state
// machine's lock.
type Environment interface {
	HasHandler(scheme string) bool
	OpenURL(u *url.URL) error
	OpenInBrowser(u *url.URL, browser string) error
	CopyToClipboard(text string) error
}

// Open executes a resolved link through the deep link → browser →
// clipboard fallback chain. Transient failures along the chain are never
// fatal; only total exhaustion surfaces as an error.
func (p *Pipeline) Open(r *ResolvedLink) (OpenOutcome, error) {
	if r == nil || r.URL == nil {
		return "", fmt.Errorf("%w: nothing resolved", ErrOpenFailed)
	}

	strategy := r.Strategy
	if strategy == "" {
		strategy = p.strategyFor(r.Platform)
	}

	if strategy != StrategyAlwaysWeb && !forcedWeb(r) {
		if strategy == StrategySystemDefault {
			if err := p.env.OpenURL(r.URL); err == nil {
				return OutcomeOpened, nil
			} else {
				log.Printf("System open failed for %s: %v", r.URL, err)
			}
			return p.clipboardFallback(r)
		}

		if deep := DeepLink(r); deep != nil && p.env.HasHandler(deep.Scheme) {
			if err := p.env.OpenURL(deep); err == nil {
				return OutcomeOpened, nil
			} else {
				log.Printf("Deep link open failed for %s, falling back to web: %v", deep.Scheme, err)
			}
		}
	}

	return p.openWeb(r)
}

func (p *Pipeline) openWeb(r *ResolvedLink) (OpenOutcome, error) {
	browser := ""
	if p.settings != nil {
		browser = p.settings.Browser()
	}

	if err := p.env.OpenInBrowser(r.URL, browser); err == nil {
		return OutcomeOpened, nil
	} else {
		log.Printf("Browser open failed for %s: %v", r.URL, err)
	}

	return p.clipboardFallback(r)
}

func (p *Pipeline) clipboardFallback(r *ResolvedLink) (OpenOutcome, error) {
	if err := p.env.CopyToClipboard(r.URL.String()); err == nil {
		return OutcomeFallback, nil
	}
	return "", fmt.Errorf("%w: %s", ErrOpenFailed, r.URL)
}
