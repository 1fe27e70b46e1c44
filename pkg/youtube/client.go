package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/salama968/LearnTube/pkg/cache"
)

const metadataCacheTTL = 6 * time.Hour

// VideoMetadata holds the subset of YouTube video data the catalog stores.
type VideoMetadata struct {
	YouTubeVideoID  string   `json:"youtubeVideoId"`
	Title           string   `json:"title"`
	ChannelTitle    string   `json:"channelTitle"`
	ThumbnailURL    string   `json:"thumbnailUrl"`
	DurationSeconds int      `json:"durationSeconds"`
	Tags            []string `json:"tags"`
}

// PlaylistMetadata holds playlist-level data for course creation.
type PlaylistMetadata struct {
	PlaylistID   string `json:"playlistId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ItemCount    int64  `json:"itemCount"`
}

// Client wraps the YouTube Data API with a read-through cache.
type Client struct {
	service *youtube.Service
	cache   cache.Client
	logger  *slog.Logger
}

// NewClient creates a YouTube Data API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, cacheClient cache.Client, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{
		service: service,
		cache:   cacheClient,
		logger:  logger,
	}, nil
}

// GetVideoMetadata fetches metadata for a single video, cache first.
func (c *Client) GetVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	cacheKey := "yt:video:" + videoID
	if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
		var meta VideoMetadata
		if err := json.Unmarshal([]byte(cached), &meta); err == nil {
			return &meta, nil
		}
	}

	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := resp.Items[0]
	duration, err := ParseISO8601Duration(item.ContentDetails.Duration)
	if err != nil {
		c.logger.Warn("unparseable video duration", "videoId", videoID, "duration", item.ContentDetails.Duration)
		duration = 0
	}

	meta := &VideoMetadata{
		YouTubeVideoID:  videoID,
		Title:           item.Snippet.Title,
		ChannelTitle:    item.Snippet.ChannelTitle,
		ThumbnailURL:    bestThumbnail(item.Snippet.Thumbnails),
		DurationSeconds: duration,
		Tags:            item.Snippet.Tags,
	}

	c.cacheSet(ctx, cacheKey, meta)
	return meta, nil
}

// GetPlaylistMetadata fetches metadata for a playlist.
func (c *Client) GetPlaylistMetadata(ctx context.Context, playlistID string) (*PlaylistMetadata, error) {
	cacheKey := "yt:playlist:" + playlistID
	if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
		var meta PlaylistMetadata
		if err := json.Unmarshal([]byte(cached), &meta); err == nil {
			return &meta, nil
		}
	}

	resp, err := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
		Id(playlistID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrPlaylistNotFound
	}

	item := resp.Items[0]
	meta := &PlaylistMetadata{
		PlaylistID:   playlistID,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
		ItemCount:    item.ContentDetails.ItemCount,
	}

	c.cacheSet(ctx, cacheKey, meta)
	return meta, nil
}

// ListPlaylistVideos fetches metadata for every video in a playlist, in
// playlist order. Pages through the API 50 items at a time.
func (c *Client) ListPlaylistVideos(ctx context.Context, playlistID string) ([]*VideoMetadata, error) {
	var videoIDs []string
	pageToken := ""
	for {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(50).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist items for %s: %w", playlistID, err)
		}
		for _, item := range resp.Items {
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	if len(videoIDs) == 0 {
		return nil, ErrPlaylistNotFound
	}

	// The videos endpoint also caps at 50 IDs per request.
	var videos []*VideoMetadata
	for start := 0; start < len(videoIDs); start += 50 {
		end := start + 50
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		resp, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).
			Id(videoIDs[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist videos: %w", err)
		}
		for _, item := range resp.Items {
			duration, err := ParseISO8601Duration(item.ContentDetails.Duration)
			if err != nil {
				c.logger.Warn("unparseable video duration", "videoId", item.Id, "duration", item.ContentDetails.Duration)
				duration = 0
			}
			videos = append(videos, &VideoMetadata{
				YouTubeVideoID:  item.Id,
				Title:           item.Snippet.Title,
				ChannelTitle:    item.Snippet.ChannelTitle,
				ThumbnailURL:    bestThumbnail(item.Snippet.Thumbnails),
				DurationSeconds: duration,
				Tags:            item.Snippet.Tags,
			})
		}
	}

	return videos, nil
}

func (c *Client) cacheSet(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(data), metadataCacheTTL); err != nil {
		c.logger.Debug("metadata cache write failed", "key", key, "error", err)
	}
}

// bestThumbnail picks the highest resolution thumbnail available.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, candidate := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if candidate != nil && candidate.Url != "" {
			return candidate.Url
		}
	}
	return ""
}
