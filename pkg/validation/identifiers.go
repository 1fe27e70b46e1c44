package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	videoIDRegex    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	playlistIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{13,42}$`)
)

// NormalizeVideoID validates a YouTube video identifier (11 URL-safe characters).
func NormalizeVideoID(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !videoIDRegex.MatchString(trimmed) {
		return "", fmt.Errorf("invalid YouTube video id %q", value)
	}
	return trimmed, nil
}

// NormalizePlaylistID validates a YouTube playlist identifier.
func NormalizePlaylistID(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !playlistIDRegex.MatchString(trimmed) {
		return "", fmt.Errorf("invalid YouTube playlist id %q", value)
	}
	return trimmed, nil
}
