package linkres

import "net/url"

// DeepLink produces the application-scheme rewrite of a resolved link,
// or nil when the platform has none. A nil return is an expected, silent
// fallback to the web path, never an error.
func DeepLink(r *ResolvedLink) *url.URL {
	if r == nil || r.URL == nil {
		return nil
	}

	switch r.Platform {
	case PlatformZoom:
		// Personal-room vanity URLs carry no conference number and
		// must go through the web redirect.
		if r.MeetingID == "" || isZoomPersonalRoom(r.URL) {
			return nil
		}
		q := url.Values{}
		q.Set("action", "join")
		q.Set("confno", r.MeetingID)
		if r.Password != "" {
			q.Set("pwd", r.Password)
		}
		return &url.URL{
			Scheme:   "zoommtg",
			Host:     "zoom.us",
			Path:     "/join",
			RawQuery: q.Encode(),
		}

	case PlatformTeams:
		// Teams accepts its web URLs verbatim under the msteams scheme.
		deep := *r.URL
		deep.Scheme = "msteams"
		return &deep
	}

	return nil
}

// forcedWeb lists URLs that must never use a deep link regardless of the
// configured strategy.
func forcedWeb(r *ResolvedLink) bool {
	if r.Platform == PlatformMeet {
		return true
	}
	if r.Platform == PlatformZoom && r.URL != nil && isZoomPersonalRoom(r.URL) {
		return true
	}
	return false
}
