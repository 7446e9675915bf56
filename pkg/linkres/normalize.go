package linkres

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// maxUnwrapDepth bounds recursive safe-link unwrapping; wrappers are
// sometimes nested (e.g. a SafeLinks-wrapped Proofpoint URL).
const maxUnwrapDepth = 5

// Normalize parses a URL candidate, unwraps known redirect/tracking
// wrappers and strips tracking query parameters using the default rules.
func Normalize(raw string) (*url.URL, error) {
	return NormalizeWithRules(raw, DefaultRules())
}

// NormalizeWithRules is Normalize with an explicit policy.
func NormalizeWithRules(raw string, rules *Rules) (*url.URL, error) {
	// Candidates scanned out of free text often drag trailing
	// punctuation along.
	raw = strings.TrimRight(raw, ".,;:)>'\"")

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("unparsable URL candidate: %w", err)
	}

	for i := 0; i < maxUnwrapDepth; i++ {
		inner := unwrapOnce(u)
		if inner == nil {
			break
		}
		u = inner
	}

	stripTrackingParams(u, rules)
	return u, nil
}

// unwrapOnce recognizes one layer of redirect wrapper and returns the
// embedded destination, or nil when the URL is not wrapped.
func unwrapOnce(u *url.URL) *url.URL {
	host := strings.ToLower(u.Hostname())

	switch {
	// Microsoft Defender SafeLinks: https://xxx.safelinks.protection.outlook.com/?url=<escaped>
	case strings.HasSuffix(host, ".safelinks.protection.outlook.com"):
		return parseWrapped(u.Query().Get("url"))

	// Proofpoint URL Defense v2: the destination sits in the "u"
	// parameter with '/' written as '_' and '%' written as '-'.
	case host == "urldefense.proofpoint.com" || host == "urldefense.com":
		if !strings.HasPrefix(u.Path, "/v2/url") {
			return nil
		}
		enc := u.Query().Get("u")
		if enc == "" {
			return nil
		}
		enc = strings.ReplaceAll(enc, "_", "/")
		enc = strings.ReplaceAll(enc, "-", "%")
		dec, err := url.QueryUnescape(enc)
		if err != nil {
			return nil
		}
		return parseWrapped(dec)

	// Google result redirect: https://www.google.com/url?q=<escaped>
	case (host == "www.google.com" || host == "google.com") && u.Path == "/url":
		if q := u.Query().Get("q"); q != "" {
			return parseWrapped(q)
		}
		return parseWrapped(u.Query().Get("url"))

	// Mandrill click tracking: the "p" parameter is base64 JSON whose
	// "p" field is another JSON document carrying the target "url".
	case host == "mandrillapp.com" || strings.HasSuffix(host, ".mandrillapp.com"):
		if !strings.Contains(u.Path, "/track/click") {
			return nil
		}
		return unwrapMandrill(u.Query().Get("p"))
	}

	return nil
}

func unwrapMandrill(payload string) *url.URL {
	if payload == "" {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return nil
	}

	var outer struct {
		P string `json:"p"`
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil
	}

	var inner struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(outer.P), &inner); err != nil {
		return nil
	}

	return parseWrapped(inner.URL)
}

// parseWrapped accepts an embedded destination only if it parses as an
// absolute http(s) URL; anything else keeps the wrapper as-is so the
// validator can fail it closed.
func parseWrapped(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	inner, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if inner.Scheme != "http" && inner.Scheme != "https" {
		return nil
	}
	if inner.Host == "" {
		return nil
	}
	return inner
}

// stripTrackingParams removes deny-listed query parameters and re-encodes
// whatever survives, repairing improperly escaped values on the way.
func stripTrackingParams(u *url.URL, rules *Rules) {
	if u.RawQuery == "" {
		return
	}

	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		values = parseQueryLoose(u.RawQuery)
	}

	for key := range values {
		if isTrackingParam(key, rules) {
			delete(values, key)
		}
	}

	u.RawQuery = values.Encode()
}

// parseQueryLoose salvages a query string that url.ParseQuery rejects by
// treating each value as a literal and re-escaping it.
func parseQueryLoose(rawQuery string) url.Values {
	values := url.Values{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		values.Add(key, value)
	}
	return values
}

func isTrackingParam(key string, rules *Rules) bool {
	key = strings.ToLower(key)
	for _, entry := range rules.TrackingParams {
		if prefix, ok := strings.CutSuffix(entry, "*"); ok {
			if strings.HasPrefix(key, prefix) {
				return true
			}
		} else if key == entry {
			return true
		}
	}
	return false
}
