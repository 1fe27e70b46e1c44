package course

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/pkg/pagination"
	"github.com/salama968/LearnTube/pkg/types"
)

// Course is a user's trackable unit of study, created from either a YouTube
// playlist (YouTubePlaylistID set) or a single video.
type Course struct {
	types.BaseModel

	UserID               uuid.UUID `gorm:"type:uuid;not null;column:user_id;index;uniqueIndex:idx_user_playlist" json:"userId"`
	Title                string    `gorm:"type:varchar(255);not null" json:"title"`
	Description          *string   `gorm:"type:text" json:"description,omitempty"`
	ChannelTitle         string    `gorm:"type:varchar(255);column:channel_title" json:"channelTitle"`
	ThumbnailURL         *string   `gorm:"type:text;column:thumbnail_url" json:"thumbnailUrl,omitempty"`
	YouTubePlaylistID    *string   `gorm:"type:varchar(64);column:youtube_playlist_id;uniqueIndex:idx_user_playlist" json:"youtubePlaylistId,omitempty"`
	TotalDurationSeconds int       `gorm:"not null;default:0;column:total_duration_seconds" json:"totalDurationSeconds"`

	Videos []Video `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// Video is one entry of a course, ordered by Position.
type Video struct {
	types.BaseModel

	CourseID        uuid.UUID      `gorm:"type:uuid;not null;column:course_id;index;uniqueIndex:idx_course_ytvideo" json:"courseId"`
	YouTubeVideoID  string         `gorm:"type:varchar(16);not null;column:youtube_video_id;uniqueIndex:idx_course_ytvideo" json:"youtubeVideoId"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	ThumbnailURL    *string        `gorm:"type:text;column:thumbnail_url" json:"thumbnailUrl,omitempty"`
	DurationSeconds int            `gorm:"not null;default:0;column:duration_seconds" json:"durationSeconds"`
	Position        int            `gorm:"not null;default:0" json:"position"`
	Tags            pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
}

// TableName overrides the default table name.
func (Video) TableName() string { return "videos" }

// ListFilters defines course query filters.
type ListFilters struct {
	UserID  uuid.UUID
	Keyword string
}

// List retrieves paginated courses for a user.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{}).Where("user_id = ?", filters.UserID)

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(channel_title) LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error

	return courses, total, err
}

// Get retrieves a course by ID with ownership enforced. A course owned by a
// different user reports ErrNotCourseOwner, not ErrCourseNotFound.
func Get(db *gorm.DB, id, userID uuid.UUID) (Course, error) {
	var crs Course
	if err := db.First(&crs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}
	if crs.UserID != userID {
		return crs, ErrNotCourseOwner
	}
	return crs, nil
}

// GetWithVideos retrieves a course and its videos in playlist order.
func GetWithVideos(db *gorm.DB, id, userID uuid.UUID) (Course, error) {
	crs, err := Get(db, id, userID)
	if err != nil {
		return crs, err
	}

	err = db.Where("course_id = ?", crs.ID).
		Order("position ASC").
		Find(&crs.Videos).Error
	return crs, err
}

// Delete removes a course and everything hanging off it: videos, watch
// events, progress rows and the course aggregate. Runs in one transaction.
func Delete(db *gorm.DB, id, userID uuid.UUID) error {
	crs, err := Get(db, id, userID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		videoIDs := tx.Model(&Video{}).Select("id").Where("course_id = ?", crs.ID)

		if err := tx.Exec(`DELETE FROM user_activity WHERE video_id IN (?)`, videoIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM progress WHERE video_id IN (?)`, videoIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM course_progress WHERE course_id = ?`, crs.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", crs.ID).Delete(&Video{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Course{}, "id = ?", crs.ID).Error
	})
}

// VideoRef resolves a video to its owning course. This is the only catalog
// read the aggregation engine needs.
type VideoRef struct {
	VideoID  uuid.UUID
	CourseID uuid.UUID
	OwnerID  uuid.UUID
}

// LookupVideo returns the owning course for a video ID.
func LookupVideo(db *gorm.DB, videoID uuid.UUID) (VideoRef, error) {
	var ref VideoRef
	err := db.Model(&Video{}).
		Select("videos.id AS video_id, videos.course_id, courses.user_id AS owner_id").
		Joins("JOIN courses ON courses.id = videos.course_id").
		Where("videos.id = ?", videoID).
		Take(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ref, ErrVideoNotFound
		}
		return ref, err
	}
	return ref, nil
}
