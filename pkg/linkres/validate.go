package linkres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Policy rejections are distinct sentinel errors so callers can surface
// a specific message instead of a generic failure.
var (
	ErrSchemeNotAllowed = errors.New("scheme not allowed")
	ErrUntrustedHost    = errors.New("untrusted host")
)

// Validate enforces the scheme and trusted-host allow-lists with the
// default rules. It fails closed: anything not explicitly allowed is
// rejected.
func Validate(u *url.URL) error {
	return ValidateWithRules(u, DefaultRules())
}

// ValidateWithRules is Validate with an explicit policy.
func ValidateWithRules(u *url.URL, rules *Rules) error {
	scheme := strings.ToLower(u.Scheme)

	allowed := false
	for _, s := range rules.AllowedSchemes {
		if scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %q", ErrSchemeNotAllowed, u.Scheme)
	}

	// Native app schemes carry no meaningful host; the host gate only
	// applies to https.
	if scheme != "https" {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	for _, trusted := range rules.TrustedHosts {
		if hostMatchesDomain(host, trusted) {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUntrustedHost, u.Hostname())
}
