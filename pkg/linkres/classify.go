package linkres

import (
	"net/url"
	"regexp"
	"strings"
)

// classifyRule maps hosts (and optionally paths) to a platform. A rule
// with an empty domain list matches on hostPattern instead, which covers
// platforms reachable through many per-tenant subdomains.
type classifyRule struct {
	platform    Platform
	domains     []string
	hostPattern *regexp.Regexp
	pathPattern *regexp.Regexp
}

// classifyRules is ordered; the first matching rule wins.
var classifyRules = []classifyRule{
	{
		platform:    PlatformZoom,
		domains:     []string{"zoom.us", "zoomgov.com"},
		pathPattern: regexp.MustCompile(`^/(j|s|w|wc|my)/`),
	},
	{
		platform:    PlatformMeet,
		domains:     []string{"meet.google.com"},
		pathPattern: regexp.MustCompile(`^/([a-z]{3}-[a-z]{4}-[a-z]{3}|lookup/)`),
	},
	{
		platform:    PlatformTeams,
		domains:     []string{"teams.microsoft.com", "teams.live.com"},
		pathPattern: regexp.MustCompile(`(meetup-join|^/meet/)`),
	},
	{
		// Webex meetings live on per-tenant subdomains (acme.webex.com),
		// so the whole host is pattern matched.
		platform:    PlatformWebex,
		hostPattern: regexp.MustCompile(`(^|\.)webex\.com$`),
	},
	{
		platform: PlatformGoToMeeting,
		domains:  []string{"gotomeeting.com", "gotomeet.me"},
	},
	{
		platform: PlatformJitsi,
		domains:  []string{"meet.jit.si", "8x8.vc"},
	},
	{
		platform: PlatformWhereby,
		domains:  []string{"whereby.com"},
	},
	{
		platform: PlatformAround,
		domains:  []string{"around.co"},
	},
	{
		platform: PlatformChime,
		domains:  []string{"chime.aws"},
	},
	{
		platform: PlatformBlueJeans,
		domains:  []string{"bluejeans.com"},
	},
	{
		platform: PlatformSkype,
		domains:  []string{"join.skype.com"},
	},
}

// nativeSchemes classifies app-scheme URLs that bypass the host table.
var nativeSchemes = map[string]Platform{
	"zoommtg": PlatformZoom,
	"zoomus":  PlatformZoom,
	"msteams": PlatformTeams,
}

// Classify maps a normalized URL to its conferencing platform, or
// PlatformUnknown when no rule matches.
func Classify(u *url.URL) Platform {
	if p, ok := nativeSchemes[strings.ToLower(u.Scheme)]; ok {
		return p
	}

	host := strings.ToLower(u.Hostname())

	for _, rule := range classifyRules {
		if !rule.matchHost(host) {
			continue
		}
		if rule.pathPattern != nil && !rule.pathPattern.MatchString(u.Path) {
			continue
		}
		return rule.platform
	}

	return PlatformUnknown
}

func (r classifyRule) matchHost(host string) bool {
	if len(r.domains) == 0 {
		return r.hostPattern != nil && r.hostPattern.MatchString(host)
	}
	for _, domain := range r.domains {
		if hostMatchesDomain(host, domain) {
			return true
		}
	}
	return false
}

// hostMatchesDomain accepts the exact host or a proper subdomain of it,
// never a suffix collision like evilzoom.us.
func hostMatchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

var (
	zoomMeetingPath  = regexp.MustCompile(`^/(?:j|s|w|wc)/(\d+)`)
	zoomPersonalPath = regexp.MustCompile(`^/my/`)
	meetCodePath     = regexp.MustCompile(`^/([a-z]{3}-[a-z]{4}-[a-z]{3})`)
)

// extractParams pulls the platform-specific meeting id and password out
// of a classified URL. Both are optional.
func extractParams(u *url.URL, p Platform) (meetingID, password string) {
	switch p {
	case PlatformZoom:
		if m := zoomMeetingPath.FindStringSubmatch(u.Path); m != nil {
			meetingID = m[1]
		}
		password = u.Query().Get("pwd")
	case PlatformMeet:
		if m := meetCodePath.FindStringSubmatch(u.Path); m != nil {
			meetingID = m[1]
		}
	}
	return meetingID, password
}

// isZoomPersonalRoom reports whether the URL is a vanity personal room
// link; those cannot be joined through the confno deep link.
func isZoomPersonalRoom(u *url.URL) bool {
	return zoomPersonalPath.MatchString(u.Path)
}
