package linkres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsTrustedHosts(t *testing.T) {
	for _, raw := range []string{
		"https://zoom.us/j/123456789",
		"https://us02web.zoom.us/j/123456789",
		"https://meet.google.com/abc-defg-hij",
		"https://acme.webex.com/meet/room",
		"zoommtg://zoom.us/join?confno=123",
		"msteams://teams.microsoft.com/l/meetup-join/19",
	} {
		assert.NoError(t, Validate(mustParse(t, raw)), raw)
	}
}

func TestValidateRejectsUntrustedHost(t *testing.T) {
	err := Validate(mustParse(t, "https://evil.example/j/123456789"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUntrustedHost)

	// A suffix collision is not a subdomain.
	err = Validate(mustParse(t, "https://evilzoom.us/j/123456789"))
	assert.ErrorIs(t, err, ErrUntrustedHost)
}

func TestValidateRejectsDisallowedScheme(t *testing.T) {
	for _, raw := range []string{
		"http://zoom.us/j/123456789", // plain http is not on the allow-list
		"javascript://zoom.us/alert(1)",
		"file:///etc/passwd",
	} {
		err := Validate(mustParse(t, raw))
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrSchemeNotAllowed, raw)
	}
}

func TestValidateWithCustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.TrustedHosts = append(rules.TrustedHosts, "meet.internal.corp")

	assert.NoError(t, ValidateWithRules(mustParse(t, "https://meet.internal.corp/room/1"), rules))
	assert.ErrorIs(t, ValidateWithRules(mustParse(t, "https://other.corp/room/1"), rules), ErrUntrustedHost)
}
