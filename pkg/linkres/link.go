package linkres

import "net/url"

// Platform identifies a conferencing service. The set is closed;
// anything unrecognized classifies as PlatformUnknown.
type Platform string

const (
	PlatformZoom        Platform = "zoom"
	PlatformMeet        Platform = "meet"
	PlatformTeams       Platform = "teams"
	PlatformWebex       Platform = "webex"
	PlatformGoToMeeting Platform = "gotomeeting"
	PlatformJitsi       Platform = "jitsi"
	PlatformWhereby     Platform = "whereby"
	PlatformAround      Platform = "around"
	PlatformChime       Platform = "chime"
	PlatformBlueJeans   Platform = "bluejeans"
	PlatformSkype       Platform = "skype"
	PlatformUnknown     Platform = "unknown"
)

// OpenStrategy selects how a resolved link should be opened.
type OpenStrategy string

const (
	StrategyPreferApp     OpenStrategy = "app"    // deep link first, web on failure
	StrategyAlwaysWeb     OpenStrategy = "web"    // never attempt a deep link
	StrategySystemDefault OpenStrategy = "system" // hand the URL to the OS handler
)

// OpenOutcome reports how an open attempt ended. Fallback means the URL
// landed on the clipboard instead of a browser or app.
type OpenOutcome string

const (
	OutcomeOpened   OpenOutcome = "opened"
	OutcomeFallback OpenOutcome = "fallback"
)

// ResolvedLink is the normalized, classified and validated form of a
// meeting URL. It is immutable once computed and recomputed per join
// attempt, never cached across alert sessions.
type ResolvedLink struct {
	URL       *url.URL
	Platform  Platform
	MeetingID string // platform-specific meeting id, e.g. zoom conference number
	Password  string // platform-specific passcode, if embedded in the URL
	Strategy  OpenStrategy
}

// HasDeepLink reports whether a native application rewrite exists for
// this link.
func (r *ResolvedLink) HasDeepLink() bool {
	return DeepLink(r) != nil
}

// RecommendedStrategy is the per-platform default used when the user has
// not configured an override. Google Meet has no usable native handler,
// so it is pinned to the web.
func RecommendedStrategy(p Platform) OpenStrategy {
	switch p {
	case PlatformMeet:
		return StrategyAlwaysWeb
	case PlatformZoom, PlatformTeams:
		return StrategyPreferApp
	default:
		return StrategySystemDefault
	}
}
