package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Job represents a background job.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Scheduler manages and executes background jobs.
type Scheduler struct {
	jobs    map[string]*ScheduledJob
	mu      sync.RWMutex
	logger  *slog.Logger
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// ScheduledJob wraps a job with its schedule.
type ScheduledJob struct {
	Job      Job
	Interval time.Duration
	ticker   *time.Ticker
	stopCh   chan struct{}
}

// NewScheduler creates a new job scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*ScheduledJob),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler with an interval.
func (s *Scheduler) AddJob(job Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.Name()] = &ScheduledJob{
		Job:      job,
		Interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts all scheduled jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	jobs := make([]*ScheduledJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	for _, scheduledJob := range jobs {
		go s.runJob(scheduledJob)
	}

	s.logger.Info("job scheduler started", "jobs", len(jobs))
}

// runJob runs a single job on its schedule.
func (s *Scheduler) runJob(scheduled *ScheduledJob) {
	ticker := time.NewTicker(scheduled.Interval)
	scheduled.ticker = ticker

	s.logger.Info("starting job", "name", scheduled.Job.Name(), "interval", scheduled.Interval)

	for {
		select {
		case <-ticker.C:
			s.executeJob(scheduled.Job)
		case <-scheduled.stopCh:
			ticker.Stop()
			return
		case <-s.ctx.Done():
			ticker.Stop()
			return
		}
	}
}

// executeJob executes a single job with error handling.
func (s *Scheduler) executeJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic", "name", job.Name(), "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	s.logger.Debug("executing job", "name", job.Name())

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		s.logger.Error("job execution failed", "name", job.Name(), "error", err, "duration", time.Since(start))
	} else {
		s.logger.Debug("job completed", "name", job.Name(), "duration", time.Since(start))
	}
}

// Stop stops all scheduled jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()

	for _, job := range s.jobs {
		close(job.stopCh)
	}

	s.running = false
	s.logger.Info("job scheduler stopped")
}

// RunOnce executes a job immediately (useful for testing).
func (s *Scheduler) RunOnce(jobName string) error {
	s.mu.RLock()
	scheduled, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job not found: %s", jobName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return scheduled.Job.Execute(ctx)
}

// VideoMetadata holds the fields refreshed from the YouTube Data API.
type VideoMetadata struct {
	Title           string
	ThumbnailURL    string
	DurationSeconds int
}

// MetadataClient fetches current metadata for a YouTube video.
type MetadataClient interface {
	GetVideoMetadata(ctx context.Context, youtubeVideoID string) (*VideoMetadata, error)
}

// MetadataRefreshJob re-fetches title, thumbnail and duration for videos
// whose metadata has not been updated recently. Titles and durations drift
// when uploaders edit their videos, which skews day-activity views.
type MetadataRefreshJob struct {
	db     *gorm.DB
	client MetadataClient
	logger *slog.Logger
}

// NewMetadataRefreshJob creates a new metadata refresh job.
func NewMetadataRefreshJob(db *gorm.DB, client MetadataClient, logger *slog.Logger) *MetadataRefreshJob {
	return &MetadataRefreshJob{
		db:     db,
		client: client,
		logger: logger,
	}
}

// Name returns the job name.
func (j *MetadataRefreshJob) Name() string {
	return "metadata_refresh"
}

// Execute refreshes stale video metadata.
func (j *MetadataRefreshJob) Execute(ctx context.Context) error {
	j.logger.Debug("refreshing video metadata")

	rows, err := j.db.WithContext(ctx).
		Raw(`SELECT id, youtube_video_id FROM videos
			 WHERE updated_at < NOW() - INTERVAL '7 days'
			 AND youtube_video_id != ''
			 ORDER BY updated_at ASC
			 LIMIT 50`).
		Rows()
	if err != nil {
		return fmt.Errorf("failed to query stale videos: %w", err)
	}
	defer rows.Close()

	type stale struct {
		id        string
		youtubeID string
	}
	var targets []stale
	for rows.Next() {
		var t stale
		if err := rows.Scan(&t.id, &t.youtubeID); err != nil {
			j.logger.Error("failed to scan video row", "error", err)
			continue
		}
		targets = append(targets, t)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to close video rows: %w", err)
	}

	updatedCount := 0
	errorCount := 0

	for _, t := range targets {
		meta, err := j.client.GetVideoMetadata(ctx, t.youtubeID)
		if err != nil {
			j.logger.Warn("failed to fetch video metadata", "videoId", t.id, "youtubeVideoId", t.youtubeID, "error", err)
			errorCount++
			continue
		}

		err = j.db.WithContext(ctx).
			Exec(`UPDATE videos SET title = ?, thumbnail_url = ?, duration_seconds = ?, updated_at = NOW() WHERE id = ?`,
				meta.Title, meta.ThumbnailURL, meta.DurationSeconds, t.id).
			Error
		if err != nil {
			j.logger.Error("failed to update video metadata", "videoId", t.id, "error", err)
			errorCount++
		} else {
			updatedCount++
		}
	}

	if updatedCount > 0 || errorCount > 0 {
		j.logger.Info("video metadata refresh completed",
			"updated", updatedCount,
			"errors", errorCount)
	}

	return nil
}

// TokenPruneJob clears refresh tokens that expired past their grace window.
type TokenPruneJob struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTokenPruneJob creates a new token prune job.
func NewTokenPruneJob(db *gorm.DB, logger *slog.Logger) *TokenPruneJob {
	return &TokenPruneJob{
		db:     db,
		logger: logger,
	}
}

// Name returns the job name.
func (j *TokenPruneJob) Name() string {
	return "token_prune"
}

// Execute nulls out refresh tokens older than the rotation window.
func (j *TokenPruneJob) Execute(ctx context.Context) error {
	result := j.db.WithContext(ctx).
		Exec(`UPDATE users SET refresh_token = NULL
			  WHERE refresh_token IS NOT NULL
			  AND updated_at < NOW() - INTERVAL '30 days'`)
	if result.Error != nil {
		return fmt.Errorf("failed to prune refresh tokens: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		j.logger.Info("pruned expired refresh tokens", "count", result.RowsAffected)
	}

	return nil
}
