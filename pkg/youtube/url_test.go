package youtube

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseURLWatchLink(t *testing.T) {
	parsed, err := ParseURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, "dQw4w9WgXcQ", parsed.VideoID)
	require.Empty(t, parsed.PlaylistID)
}

func TestParseURLShortLink(t *testing.T) {
	parsed, err := ParseURL("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, "dQw4w9WgXcQ", parsed.VideoID)
}

func TestParseURLEmbedLink(t *testing.T) {
	parsed, err := ParseURL("https://www.youtube.com/embed/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, "dQw4w9WgXcQ", parsed.VideoID)
}

func TestParseURLPlaylist(t *testing.T) {
	parsed, err := ParseURL("https://www.youtube.com/playlist?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf")
	require.NoError(t, err)
	require.Equal(t, "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf", parsed.PlaylistID)
	require.Empty(t, parsed.VideoID)
}

func TestParseURLWatchWithListPrefersPlaylist(t *testing.T) {
	parsed, err := ParseURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf")
	require.NoError(t, err)
	require.Equal(t, "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf", parsed.PlaylistID)
	require.Empty(t, parsed.VideoID)
}

func TestParseURLMobileHost(t *testing.T) {
	parsed, err := ParseURL("https://m.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Equal(t, "dQw4w9WgXcQ", parsed.VideoID)
}

func TestParseURLRejectsOtherHosts(t *testing.T) {
	for _, raw := range []string{
		"https://vimeo.com/12345",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"not a url at all",
		"",
	} {
		_, err := ParseURL(raw)
		require.ErrorIs(t, err, ErrInvalidURL, "input %q", raw)
	}
}

func TestParseURLRejectsMalformedVideoID(t *testing.T) {
	_, err := ParseURL("https://www.youtube.com/watch?v=tooshort")
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestParseISO8601Duration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT1H2M30S", 3750},
		{"PT15M", 900},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT1H30S", 3630},
		{"P0D", 0},
		{"", 0},
	}
	for _, tc := range cases {
		got, err := ParseISO8601Duration(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseISO8601DurationInvalid(t *testing.T) {
	for _, raw := range []string{"1h30m", "PT", "P1DT2H", "garbage"} {
		_, err := ParseISO8601Duration(raw)
		require.Error(t, err, "input %q", raw)
	}
}
