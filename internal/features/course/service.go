package course

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/pkg/youtube"
)

// MetadataSource is the slice of the YouTube client course creation needs.
type MetadataSource interface {
	GetVideoMetadata(ctx context.Context, videoID string) (*youtube.VideoMetadata, error)
	GetPlaylistMetadata(ctx context.Context, playlistID string) (*youtube.PlaylistMetadata, error)
	ListPlaylistVideos(ctx context.Context, playlistID string) ([]*youtube.VideoMetadata, error)
}

// CreateFromURL builds a course from a YouTube video or playlist URL.
// A playlist URL produces a course with one Video row per playlist entry in
// playlist order; a video URL produces a single-video course. Creating the
// same playlist twice for one user fails with ErrDuplicateCourse.
func CreateFromURL(ctx context.Context, db *gorm.DB, src MetadataSource, userID uuid.UUID, rawURL string) (Course, error) {
	var crs Course

	parsed, err := youtube.ParseURL(rawURL)
	if err != nil {
		return crs, err
	}

	if parsed.PlaylistID != "" {
		return createFromPlaylist(ctx, db, src, userID, parsed.PlaylistID)
	}
	return createFromVideo(ctx, db, src, userID, parsed.VideoID)
}

func createFromPlaylist(ctx context.Context, db *gorm.DB, src MetadataSource, userID uuid.UUID, playlistID string) (Course, error) {
	var crs Course

	var count int64
	if err := db.Model(&Course{}).
		Where("user_id = ? AND youtube_playlist_id = ?", userID, playlistID).
		Count(&count).Error; err != nil {
		return crs, err
	}
	if count > 0 {
		return crs, ErrDuplicateCourse
	}

	meta, err := src.GetPlaylistMetadata(ctx, playlistID)
	if err != nil {
		return crs, err
	}

	videos, err := src.ListPlaylistVideos(ctx, playlistID)
	if err != nil {
		return crs, err
	}

	totalDuration := 0
	for _, v := range videos {
		totalDuration += v.DurationSeconds
	}

	crs = Course{
		UserID:               userID,
		Title:                meta.Title,
		ChannelTitle:         meta.ChannelTitle,
		YouTubePlaylistID:    &meta.PlaylistID,
		TotalDurationSeconds: totalDuration,
	}
	if meta.ThumbnailURL != "" {
		crs.ThumbnailURL = &meta.ThumbnailURL
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&crs).Error; err != nil {
			return err
		}
		for i, v := range videos {
			row := Video{
				CourseID:        crs.ID,
				YouTubeVideoID:  v.YouTubeVideoID,
				Title:           v.Title,
				DurationSeconds: v.DurationSeconds,
				Position:        i,
				Tags:            pq.StringArray(v.Tags),
			}
			if v.ThumbnailURL != "" {
				row.ThumbnailURL = &v.ThumbnailURL
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			crs.Videos = append(crs.Videos, row)
		}
		return nil
	})
	if err != nil {
		return Course{}, err
	}
	return crs, nil
}

func createFromVideo(ctx context.Context, db *gorm.DB, src MetadataSource, userID uuid.UUID, youtubeVideoID string) (Course, error) {
	var crs Course

	var count int64
	err := db.Model(&Video{}).
		Joins("JOIN courses ON courses.id = videos.course_id").
		Where("courses.user_id = ? AND courses.youtube_playlist_id IS NULL AND videos.youtube_video_id = ?", userID, youtubeVideoID).
		Count(&count).Error
	if err != nil {
		return crs, err
	}
	if count > 0 {
		return crs, ErrDuplicateCourse
	}

	meta, err := src.GetVideoMetadata(ctx, youtubeVideoID)
	if err != nil {
		return crs, err
	}

	crs = Course{
		UserID:               userID,
		Title:                meta.Title,
		ChannelTitle:         meta.ChannelTitle,
		TotalDurationSeconds: meta.DurationSeconds,
	}
	if meta.ThumbnailURL != "" {
		crs.ThumbnailURL = &meta.ThumbnailURL
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&crs).Error; err != nil {
			return err
		}
		row := Video{
			CourseID:        crs.ID,
			YouTubeVideoID:  meta.YouTubeVideoID,
			Title:           meta.Title,
			DurationSeconds: meta.DurationSeconds,
			Position:        0,
			Tags:            pq.StringArray(meta.Tags),
		}
		if meta.ThumbnailURL != "" {
			row.ThumbnailURL = &meta.ThumbnailURL
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		crs.Videos = []Video{row}
		return nil
	})
	if err != nil {
		return Course{}, err
	}
	return crs, nil
}

// IsMetadataError reports whether err came from the YouTube lookup rather
// than storage.
func IsMetadataError(err error) bool {
	return errors.Is(err, youtube.ErrVideoNotFound) ||
		errors.Is(err, youtube.ErrPlaylistNotFound) ||
		errors.Is(err, youtube.ErrInvalidURL)
}
