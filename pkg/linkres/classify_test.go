package linkres

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Platform
	}{
		{"https://zoom.us/j/123456789", PlatformZoom},
		{"https://us02web.zoom.us/j/123456789?pwd=abc", PlatformZoom},
		{"https://zoom.us/my/vanityroom", PlatformZoom},
		{"https://example.zoomgov.com/j/123456789", PlatformZoom},
		{"zoommtg://zoom.us/join?confno=123", PlatformZoom},
		{"https://meet.google.com/abc-defg-hij", PlatformMeet},
		{"https://meet.google.com/lookup/someroom", PlatformMeet},
		{"https://teams.microsoft.com/l/meetup-join/19%3ameeting", PlatformTeams},
		{"https://teams.live.com/meet/9371234567", PlatformTeams},
		{"msteams://teams.microsoft.com/l/meetup-join/19", PlatformTeams},
		{"https://acme.webex.com/acme/j.php?MTID=m123", PlatformWebex},
		{"https://www.gotomeeting.com/join/123456789", PlatformGoToMeeting},
		{"https://gotomeet.me/myroom", PlatformGoToMeeting},
		{"https://meet.jit.si/SomeRoom", PlatformJitsi},
		{"https://8x8.vc/company/room", PlatformJitsi},
		{"https://whereby.com/myroom", PlatformWhereby},
		{"https://around.co/r/room", PlatformAround},
		{"https://chime.aws/1234567890", PlatformChime},
		{"https://bluejeans.com/123456789", PlatformBlueJeans},
		{"https://join.skype.com/abc123", PlatformSkype},

		// Hosts that merely resemble a platform must not classify.
		{"https://evilzoom.us/j/123456789", PlatformUnknown},
		{"https://notwebex.com/j/1", PlatformUnknown},
		{"https://example.com/j/123456789", PlatformUnknown},
		// Platform host without a meeting path is not a meeting link.
		{"https://zoom.us/pricing", PlatformUnknown},
		{"https://meet.google.com/about", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(mustParse(t, tt.raw)))
		})
	}
}

func TestExtractParamsZoom(t *testing.T) {
	u := mustParse(t, "https://zoom.us/j/123456789?pwd=s3cret")
	id, pwd := extractParams(u, PlatformZoom)
	assert.Equal(t, "123456789", id)
	assert.Equal(t, "s3cret", pwd)

	u = mustParse(t, "https://zoom.us/my/vanityroom")
	id, pwd = extractParams(u, PlatformZoom)
	assert.Empty(t, id, "personal rooms carry no conference number")
	assert.Empty(t, pwd)
}

func TestExtractParamsMeet(t *testing.T) {
	u := mustParse(t, "https://meet.google.com/abc-defg-hij")
	id, pwd := extractParams(u, PlatformMeet)
	assert.Equal(t, "abc-defg-hij", id)
	assert.Empty(t, pwd)
}

func TestExtractParamsUnknownPlatform(t *testing.T) {
	u := mustParse(t, "https://whereby.com/myroom")
	id, pwd := extractParams(u, PlatformWhereby)
	assert.Empty(t, id)
	assert.Empty(t, pwd)
}

func TestIsZoomPersonalRoom(t *testing.T) {
	assert.True(t, isZoomPersonalRoom(mustParse(t, "https://zoom.us/my/vanityroom")))
	assert.False(t, isZoomPersonalRoom(mustParse(t, "https://zoom.us/j/123456789")))
}

func TestHostMatchesDomain(t *testing.T) {
	assert.True(t, hostMatchesDomain("zoom.us", "zoom.us"))
	assert.True(t, hostMatchesDomain("us02web.zoom.us", "zoom.us"))
	assert.False(t, hostMatchesDomain("evilzoom.us", "zoom.us"))
	assert.False(t, hostMatchesDomain("zoom.us.evil.com", "zoom.us"))
}
