package linkres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepLinkZoom(t *testing.T) {
	r := &ResolvedLink{
		URL:       mustParse(t, "https://zoom.us/j/123456789?pwd=s3cret"),
		Platform:  PlatformZoom,
		MeetingID: "123456789",
		Password:  "s3cret",
	}

	deep := DeepLink(r)
	require.NotNil(t, deep)
	assert.Equal(t, "zoommtg", deep.Scheme)
	assert.Equal(t, "zoom.us", deep.Host)
	assert.Equal(t, "/join", deep.Path)

	q := deep.Query()
	assert.Equal(t, "join", q.Get("action"))
	assert.Equal(t, "123456789", q.Get("confno"))
	assert.Equal(t, "s3cret", q.Get("pwd"))
}

func TestDeepLinkZoomWithoutPassword(t *testing.T) {
	r := &ResolvedLink{
		URL:       mustParse(t, "https://zoom.us/j/123456789"),
		Platform:  PlatformZoom,
		MeetingID: "123456789",
	}

	deep := DeepLink(r)
	require.NotNil(t, deep)
	assert.Empty(t, deep.Query().Get("pwd"))
}

func TestDeepLinkZoomPersonalRoomHasNone(t *testing.T) {
	r := &ResolvedLink{
		URL:      mustParse(t, "https://zoom.us/my/vanityroom"),
		Platform: PlatformZoom,
	}
	assert.Nil(t, DeepLink(r))
}

func TestDeepLinkTeams(t *testing.T) {
	r := &ResolvedLink{
		URL:      mustParse(t, "https://teams.microsoft.com/l/meetup-join/19%3ameeting/0?context=abc"),
		Platform: PlatformTeams,
	}

	deep := DeepLink(r)
	require.NotNil(t, deep)
	assert.Equal(t, "msteams", deep.Scheme)
	assert.Equal(t, "teams.microsoft.com", deep.Host)
	// Everything but the scheme carries over verbatim.
	assert.Equal(t, r.URL.RawQuery, deep.RawQuery)
}

func TestDeepLinkMeetHasNone(t *testing.T) {
	r := &ResolvedLink{
		URL:       mustParse(t, "https://meet.google.com/abc-defg-hij"),
		Platform:  PlatformMeet,
		MeetingID: "abc-defg-hij",
	}
	assert.Nil(t, DeepLink(r))
}

func TestDeepLinkNilInput(t *testing.T) {
	assert.Nil(t, DeepLink(nil))
	assert.Nil(t, DeepLink(&ResolvedLink{Platform: PlatformZoom}))
}

func TestForcedWeb(t *testing.T) {
	meet := &ResolvedLink{URL: mustParse(t, "https://meet.google.com/abc-defg-hij"), Platform: PlatformMeet}
	assert.True(t, forcedWeb(meet), "browser-native platforms never deep link")

	personal := &ResolvedLink{URL: mustParse(t, "https://zoom.us/my/vanityroom"), Platform: PlatformZoom}
	assert.True(t, forcedWeb(personal))

	regular := &ResolvedLink{URL: mustParse(t, "https://zoom.us/j/123456789"), Platform: PlatformZoom, MeetingID: "123456789"}
	assert.False(t, forcedWeb(regular))
}

func TestRecommendedStrategy(t *testing.T) {
	assert.Equal(t, StrategyAlwaysWeb, RecommendedStrategy(PlatformMeet))
	assert.Equal(t, StrategyPreferApp, RecommendedStrategy(PlatformZoom))
	assert.Equal(t, StrategyPreferApp, RecommendedStrategy(PlatformTeams))
	assert.Equal(t, StrategySystemDefault, RecommendedStrategy(PlatformWhereby))
	assert.Equal(t, StrategySystemDefault, RecommendedStrategy(PlatformUnknown))
}
