package youtube

import (
	"errors"
	"net/url"
	"strings"

	"github.com/salama968/LearnTube/pkg/validation"
)

var (
	ErrVideoNotFound    = errors.New("youtube video not found")
	ErrPlaylistNotFound = errors.New("youtube playlist not found")
	ErrInvalidURL       = errors.New("not a recognized youtube url")
)

// ParsedURL is the result of parsing a user-supplied YouTube link.
// Exactly one of VideoID or PlaylistID is set.
type ParsedURL struct {
	VideoID    string
	PlaylistID string
}

// ParseURL extracts a video or playlist ID from a YouTube URL. Supported
// forms: youtube.com/watch?v=ID, youtube.com/playlist?list=ID, youtu.be/ID
// and youtube.com/embed/ID. A watch URL carrying both v= and list= resolves
// to the playlist, matching how YouTube itself treats such links.
func ParseURL(raw string) (*ParsedURL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if list := u.Query().Get("list"); list != "" {
			if id, err := validation.NormalizePlaylistID(list); err == nil {
				return &ParsedURL{PlaylistID: id}, nil
			}
		}
		if v := u.Query().Get("v"); v != "" {
			if id, err := validation.NormalizeVideoID(v); err == nil {
				return &ParsedURL{VideoID: id}, nil
			}
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok {
			if id, err := validation.NormalizeVideoID(rest); err == nil {
				return &ParsedURL{VideoID: id}, nil
			}
		}
	case "youtu.be":
		if id, err := validation.NormalizeVideoID(strings.Trim(u.Path, "/")); err == nil {
			return &ParsedURL{VideoID: id}, nil
		}
	}

	return nil, ErrInvalidURL
}
