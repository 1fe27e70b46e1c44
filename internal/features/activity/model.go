package activity

import (
	"time"

	"github.com/google/uuid"
)

// WatchEvent is one reported chunk of watch time. Append-only; rows are
// never updated and only removed when their owning course is deleted.
type WatchEvent struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;column:user_id;index:idx_activity_user_time,priority:1" json:"userId"`
	VideoID        uuid.UUID `gorm:"type:uuid;not null;column:video_id;index" json:"videoId"`
	WatchedSeconds int       `gorm:"not null;column:watched_seconds" json:"watchedSeconds"`
	OccurredAt     time.Time `gorm:"not null;column:occurred_at;index:idx_activity_user_time,priority:2" json:"occurredAt"`
}

// TableName overrides the default table name.
func (WatchEvent) TableName() string { return "user_activity" }

// VideoProgress is the snapshot-maintained state of one user on one video.
// At most one row per (user, video); snapshots overwrite it wholesale.
type VideoProgress struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"userId"`
	VideoID        uuid.UUID `gorm:"type:uuid;primaryKey;column:video_id" json:"videoId"`
	WatchedSeconds int       `gorm:"not null;default:0;column:watched_seconds" json:"watchedSeconds"`
	Completed      bool      `gorm:"not null;default:false" json:"completed"`
	LastWatchedAt  time.Time `gorm:"not null;column:last_watched_at" json:"lastWatchedAt"`
}

// TableName overrides the default table name.
func (VideoProgress) TableName() string { return "progress" }

// DailyActivity is the per-day watch-time rollup behind the heatmap.
// TotalSeconds is only ever incremented, by chunk ingestion.
type DailyActivity struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"userId"`
	Date         string    `gorm:"type:date;primaryKey" json:"date"`
	TotalSeconds int       `gorm:"not null;default:0;column:total_seconds" json:"totalSeconds"`
}

// TableName overrides the default table name.
func (DailyActivity) TableName() string { return "daily_activity" }

// CourseProgress is the per-course rollup. Its two counters come from
// disjoint write paths: TotalWatchedSeconds from chunk ingestion only,
// CompletedVideos from completion transitions in snapshot ingestion only.
// Neither is ever decremented.
type CourseProgress struct {
	UserID              uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"userId"`
	CourseID            uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id" json:"courseId"`
	TotalWatchedSeconds int       `gorm:"not null;default:0;column:total_watched_seconds" json:"totalWatchedSeconds"`
	CompletedVideos     int       `gorm:"not null;default:0;column:completed_videos" json:"completedVideos"`
}

// TableName overrides the default table name.
func (CourseProgress) TableName() string { return "course_progress" }
