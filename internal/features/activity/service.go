package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salama968/LearnTube/internal/features/course"
	"github.com/salama968/LearnTube/pkg/metrics"
	"github.com/salama968/LearnTube/pkg/types"
)

// ChunkResult reports the aggregate rows touched by a chunk event.
type ChunkResult struct {
	Event    WatchEvent `json:"event"`
	CourseID uuid.UUID  `json:"courseId"`
	Date     string     `json:"date"`
}

// SnapshotResult reports the outcome of a snapshot upsert.
type SnapshotResult struct {
	Progress           VideoProgress `json:"progress"`
	CourseID           uuid.UUID     `json:"courseId"`
	CompletionRecorded bool          `json:"completionRecorded"`
}

// resolveVideo maps a video to its course, enforcing ownership.
func resolveVideo(db *gorm.DB, userID, videoID uuid.UUID) (course.VideoRef, error) {
	ref, err := course.LookupVideo(db, videoID)
	if err != nil {
		if errors.Is(err, course.ErrVideoNotFound) {
			return ref, ErrVideoNotFound
		}
		return ref, err
	}
	if ref.OwnerID != userID {
		return ref, ErrNotVideoOwner
	}
	return ref, nil
}

// RecordChunk ingests "+chunkSeconds watched just now" for a video. It
// appends a WatchEvent and bumps the daily and course aggregates by the
// chunk size, all in one transaction. Aggregate bumps are single-statement
// conflict upserts so concurrent chunks for the same day or course both
// land instead of one clobbering the other.
func RecordChunk(db *gorm.DB, userID, videoID uuid.UUID, chunkSeconds int) (*ChunkResult, error) {
	ref, err := resolveVideo(db, userID, videoID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := now.Format(types.DateOnly)
	event := WatchEvent{
		UserID:         userID,
		VideoID:        videoID,
		WatchedSeconds: chunkSeconds,
		OccurredAt:     now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		daily := DailyActivity{UserID: userID, Date: date, TotalSeconds: chunkSeconds}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "date"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_seconds": gorm.Expr("daily_activity.total_seconds + ?", chunkSeconds),
			}),
		}).Create(&daily).Error; err != nil {
			return err
		}

		progress := CourseProgress{
			UserID:              userID,
			CourseID:            ref.CourseID,
			TotalWatchedSeconds: chunkSeconds,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "course_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_watched_seconds": gorm.Expr("course_progress.total_watched_seconds + ?", chunkSeconds),
			}),
		}).Create(&progress).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordChunk(chunkSeconds)
	return &ChunkResult{Event: event, CourseID: ref.CourseID, Date: date}, nil
}

// RecordSnapshot ingests "cumulative watched time is now totalSeconds,
// completed=completed" for a video. The VideoProgress row is overwritten
// wholesale. Only a false-to-true completion transition increments the
// course's completed-video counter; a true-to-false snapshot overwrites the
// flag without decrementing. The prior flag is read under FOR UPDATE so two
// concurrent completion snapshots produce exactly one increment.
func RecordSnapshot(db *gorm.DB, userID, videoID uuid.UUID, totalSeconds int, completed bool) (*SnapshotResult, error) {
	ref, err := resolveVideo(db, userID, videoID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &SnapshotResult{CourseID: ref.CourseID}

	err = db.Transaction(func(tx *gorm.DB) error {
		wasCompleted := false
		var existing VideoProgress
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND video_id = ?", userID, videoID).
			Take(&existing).Error
		switch {
		case err == nil:
			wasCompleted = existing.Completed
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first snapshot for this pair
		default:
			return err
		}

		progress := VideoProgress{
			UserID:         userID,
			VideoID:        videoID,
			WatchedSeconds: totalSeconds,
			Completed:      completed,
			LastWatchedAt:  now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "video_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"watched_seconds": totalSeconds,
				"completed":       completed,
				"last_watched_at": now,
			}),
		}).Create(&progress).Error; err != nil {
			return err
		}
		result.Progress = progress

		if completed && !wasCompleted {
			courseRow := CourseProgress{
				UserID:          userID,
				CourseID:        ref.CourseID,
				CompletedVideos: 1,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "user_id"},
					{Name: "course_id"},
				},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"completed_videos": gorm.Expr("course_progress.completed_videos + ?", 1),
				}),
			}).Create(&courseRow).Error; err != nil {
				return err
			}
			result.CompletionRecorded = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSnapshot(result.CompletionRecorded)
	return result, nil
}

// GetVideoProgress returns the snapshot state for one video, or nil when no
// snapshot has been recorded yet. A missing video is still NotFound.
func GetVideoProgress(db *gorm.DB, userID, videoID uuid.UUID) (*VideoProgress, error) {
	if _, err := resolveVideo(db, userID, videoID); err != nil {
		return nil, err
	}

	var progress VideoProgress
	err := db.Where("user_id = ? AND video_id = ?", userID, videoID).Take(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// VideoProgressEntry pairs a catalog video with the user's progress on it.
type VideoProgressEntry struct {
	Video    course.Video   `json:"video"`
	Progress *VideoProgress `json:"progress,omitempty"`
}

// CourseProgressView composes the course aggregate with catalog data and
// per-video progress for one user.
type CourseProgressView struct {
	Course               course.Course        `json:"course"`
	TotalVideos          int                  `json:"totalVideos"`
	TotalDurationSeconds int                  `json:"totalDurationSeconds"`
	TotalWatchedSeconds  int                  `json:"totalWatchedSeconds"`
	CompletedVideos      int                  `json:"completedVideos"`
	CompletionPercent    decimal.Decimal      `json:"completionPercent"`
	Videos               []VideoProgressEntry `json:"videos"`
}

// GetCourseProgress assembles the full progress view for one course.
// Aggregate numbers come from the CourseProgress row (zero when absent);
// totalVideos and totalDurationSeconds come from the catalog.
func GetCourseProgress(db *gorm.DB, userID, courseID uuid.UUID) (*CourseProgressView, error) {
	crs, err := course.GetWithVideos(db, courseID, userID)
	if err != nil {
		return nil, err
	}

	var aggregate CourseProgress
	err = db.Where("user_id = ? AND course_id = ?", userID, courseID).Take(&aggregate).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	videoIDs := make([]uuid.UUID, len(crs.Videos))
	for i, v := range crs.Videos {
		videoIDs[i] = v.ID
	}

	byVideo := make(map[uuid.UUID]*VideoProgress)
	if len(videoIDs) > 0 {
		var rows []VideoProgress
		if err := db.Where("user_id = ? AND video_id IN ?", userID, videoIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			byVideo[rows[i].VideoID] = &rows[i]
		}
	}

	entries := make([]VideoProgressEntry, len(crs.Videos))
	for i, v := range crs.Videos {
		entries[i] = VideoProgressEntry{Video: v, Progress: byVideo[v.ID]}
	}

	percent := decimal.Zero
	if len(crs.Videos) > 0 {
		percent = decimal.NewFromInt(int64(aggregate.CompletedVideos)).
			Div(decimal.NewFromInt(int64(len(crs.Videos)))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	view := &CourseProgressView{
		Course:               crs,
		TotalVideos:          len(crs.Videos),
		TotalDurationSeconds: crs.TotalDurationSeconds,
		TotalWatchedSeconds:  aggregate.TotalWatchedSeconds,
		CompletedVideos:      aggregate.CompletedVideos,
		CompletionPercent:    percent,
		Videos:               entries,
	}
	view.Course.Videos = nil
	return view, nil
}

// DayEvent is one watch event joined with catalog titles for display.
type DayEvent struct {
	VideoID        uuid.UUID `json:"videoId"`
	CourseID       uuid.UUID `json:"courseId"`
	VideoTitle     string    `json:"videoTitle"`
	CourseTitle    string    `json:"courseTitle"`
	WatchedSeconds int       `json:"watchedSeconds"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// DayActivityView is one day's aggregate plus its event log.
type DayActivityView struct {
	Date           string     `json:"date"`
	TotalSeconds   int        `json:"totalSeconds"`
	DistinctVideos int        `json:"distinctVideos"`
	Events         []DayEvent `json:"events"`
}

// GetDayActivity returns the daily aggregate for one local calendar day
// plus every event that falls inside it, joined with video and course
// titles, oldest first. DistinctVideos deduplicates by video, not event.
func GetDayActivity(db *gorm.DB, userID uuid.UUID, date string) (*DayActivityView, error) {
	view := &DayActivityView{Date: date, Events: []DayEvent{}}

	var daily DailyActivity
	err := db.Where("user_id = ? AND date = ?", userID, date).Take(&daily).Error
	if err == nil {
		view.TotalSeconds = daily.TotalSeconds
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dayStart, err := time.ParseInLocation(types.DateOnly, date, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	err = db.Model(&WatchEvent{}).
		Select(`user_activity.video_id, videos.course_id, videos.title AS video_title,
			courses.title AS course_title, user_activity.watched_seconds, user_activity.occurred_at`).
		Joins("JOIN videos ON videos.id = user_activity.video_id").
		Joins("JOIN courses ON courses.id = videos.course_id").
		Where("user_activity.user_id = ? AND user_activity.occurred_at >= ? AND user_activity.occurred_at < ?",
			userID, dayStart, dayEnd).
		Order("user_activity.occurred_at ASC").
		Scan(&view.Events).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	for _, e := range view.Events {
		seen[e.VideoID] = struct{}{}
	}
	view.DistinctVideos = len(seen)

	return view, nil
}

// GetHeatmap returns the user's daily aggregates for one calendar year,
// ascending by date. Days without activity have no row.
func GetHeatmap(db *gorm.DB, userID uuid.UUID, year int) ([]DailyActivity, error) {
	if year < 1000 || year > 9999 {
		return nil, ErrInvalidYear
	}

	days := make([]DailyActivity, 0)
	err := db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID,
		fmt.Sprintf("%04d-01-01", year),
		fmt.Sprintf("%04d-12-31", year)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

// DashboardView is the all-time summary across every course.
type DashboardView struct {
	TotalWatchedSeconds int   `json:"totalWatchedSeconds"`
	CourseCount         int64 `json:"courseCount"`
	CompletedVideos     int   `json:"completedVideos"`
}

// GetDashboard sums the daily aggregates (the authoritative lifetime
// total), counts the user's courses and sums completed videos.
func GetDashboard(db *gorm.DB, userID uuid.UUID) (*DashboardView, error) {
	view := &DashboardView{}

	err := db.Model(&DailyActivity{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_seconds), 0)").
		Scan(&view.TotalWatchedSeconds).Error
	if err != nil {
		return nil, err
	}

	if err := db.Model(&course.Course{}).Where("user_id = ?", userID).Count(&view.CourseCount).Error; err != nil {
		return nil, err
	}

	err = db.Model(&CourseProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(completed_videos), 0)").
		Scan(&view.CompletedVideos).Error
	if err != nil {
		return nil, err
	}

	return view, nil
}
