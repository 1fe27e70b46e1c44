package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/pkg/types"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func expectVideoLookup(mock sqlmock.Sqlmock, videoID, courseID, ownerID uuid.UUID) {
	mock.ExpectQuery(`SELECT .+ FROM "videos" JOIN courses`).
		WillReturnRows(sqlmock.NewRows([]string{"video_id", "course_id", "owner_id"}).
			AddRow(videoID.String(), courseID.String(), ownerID.String()))
}

func TestRecordChunkUpdatesBothAggregates(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoID := uuid.New()
	courseID := uuid.New()

	expectVideoLookup(mock, videoID, courseID, userID)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_activity"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(`INSERT INTO "daily_activity" .+ ON CONFLICT .+ "total_seconds"=daily_activity\.total_seconds \+ `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "course_progress" .+ ON CONFLICT .+ "total_watched_seconds"=course_progress\.total_watched_seconds \+ `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := RecordChunk(db, userID, videoID, 30)
	require.NoError(t, err)
	require.Equal(t, courseID, result.CourseID)
	require.Equal(t, 30, result.Event.WatchedSeconds)
	require.Equal(t, time.Now().Format(types.DateOnly), result.Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordChunkUnknownVideo(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM "videos" JOIN courses`).
		WillReturnRows(sqlmock.NewRows([]string{"video_id", "course_id", "owner_id"}))

	_, err := RecordChunk(db, uuid.New(), uuid.New(), 30)
	require.ErrorIs(t, err, ErrVideoNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordChunkForeignVideo(t *testing.T) {
	db, mock := newMockDB(t)

	videoID := uuid.New()
	expectVideoLookup(mock, videoID, uuid.New(), uuid.New())

	_, err := RecordChunk(db, uuid.New(), videoID, 30)
	require.ErrorIs(t, err, ErrNotVideoOwner)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordChunkRollsBackOnAggregateFailure(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoID := uuid.New()

	expectVideoLookup(mock, videoID, uuid.New(), userID)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_activity"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(`INSERT INTO "daily_activity"`).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	_, err := RecordChunk(db, userID, videoID, 30)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSnapshotFirstCompletion(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoID := uuid.New()
	courseID := uuid.New()

	expectVideoLookup(mock, videoID, courseID, userID)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "progress" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "video_id", "watched_seconds", "completed"}))
	mock.ExpectExec(`INSERT INTO "progress" .+ ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "course_progress" .+ "completed_videos"=course_progress\.completed_videos \+ `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := RecordSnapshot(db, userID, videoID, 300, true)
	require.NoError(t, err)
	require.True(t, result.CompletionRecorded)
	require.Equal(t, 300, result.Progress.WatchedSeconds)
	require.True(t, result.Progress.Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSnapshotRepeatedCompletionIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoID := uuid.New()

	expectVideoLookup(mock, videoID, uuid.New(), userID)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "progress" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "video_id", "watched_seconds", "completed"}).
			AddRow(userID.String(), videoID.String(), 250, true))
	mock.ExpectExec(`INSERT INTO "progress" .+ ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// no course_progress statement: the counter must not move again
	mock.ExpectCommit()

	result, err := RecordSnapshot(db, userID, videoID, 300, true)
	require.NoError(t, err)
	require.False(t, result.CompletionRecorded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSnapshotUncompleteNeverDecrements(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoID := uuid.New()

	expectVideoLookup(mock, videoID, uuid.New(), userID)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "progress" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "video_id", "watched_seconds", "completed"}).
			AddRow(userID.String(), videoID.String(), 300, true))
	mock.ExpectExec(`INSERT INTO "progress" .+ ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// flag overwritten to false, counter untouched
	mock.ExpectCommit()

	result, err := RecordSnapshot(db, userID, videoID, 200, false)
	require.NoError(t, err)
	require.False(t, result.CompletionRecorded)
	require.False(t, result.Progress.Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVideoProgressMissingRowIsNil(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoID := uuid.New()

	expectVideoLookup(mock, videoID, uuid.New(), userID)
	mock.ExpectQuery(`SELECT \* FROM "progress"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "video_id", "watched_seconds", "completed"}))

	progress, err := GetVideoProgress(db, userID, videoID)
	require.NoError(t, err)
	require.Nil(t, progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCourseProgressComposesView(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	courseID := uuid.New()
	videoA := uuid.New()
	videoB := uuid.New()
	videoC := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "courses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "total_duration_seconds"}).
			AddRow(courseID.String(), userID.String(), "Go Basics", 3600))
	mock.ExpectQuery(`SELECT \* FROM "videos"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "position", "duration_seconds"}).
			AddRow(videoA.String(), courseID.String(), "Intro", 0, 1200).
			AddRow(videoB.String(), courseID.String(), "Types", 1, 1200).
			AddRow(videoC.String(), courseID.String(), "Funcs", 2, 1200))
	mock.ExpectQuery(`SELECT \* FROM "course_progress"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "course_id", "total_watched_seconds", "completed_videos"}).
			AddRow(userID.String(), courseID.String(), 900, 1))
	mock.ExpectQuery(`SELECT \* FROM "progress"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "video_id", "watched_seconds", "completed"}).
			AddRow(userID.String(), videoA.String(), 1200, true))

	view, err := GetCourseProgress(db, userID, courseID)
	require.NoError(t, err)
	require.Equal(t, 3, view.TotalVideos)
	require.Equal(t, 3600, view.TotalDurationSeconds)
	require.Equal(t, 900, view.TotalWatchedSeconds)
	require.Equal(t, 1, view.CompletedVideos)
	require.Equal(t, "33.33", view.CompletionPercent.StringFixed(2))
	require.Len(t, view.Videos, 3)
	require.NotNil(t, view.Videos[0].Progress)
	require.Nil(t, view.Videos[1].Progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDayActivityCountsDistinctVideos(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()
	videoA := uuid.New()
	videoB := uuid.New()
	courseID := uuid.New()
	date := "2026-03-15"
	base := time.Date(2026, 3, 15, 9, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT \* FROM "daily_activity"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "date", "total_seconds"}).
			AddRow(userID.String(), date, 180))
	mock.ExpectQuery(`SELECT .+ FROM "user_activity" JOIN videos`).
		WillReturnRows(sqlmock.NewRows([]string{"video_id", "course_id", "video_title", "course_title", "watched_seconds", "occurred_at"}).
			AddRow(videoA.String(), courseID.String(), "Intro", "Go Basics", 60, base).
			AddRow(videoA.String(), courseID.String(), "Intro", "Go Basics", 60, base.Add(5*time.Minute)).
			AddRow(videoB.String(), courseID.String(), "Types", "Go Basics", 60, base.Add(10*time.Minute)))

	view, err := GetDayActivity(db, userID, date)
	require.NoError(t, err)
	require.Equal(t, 180, view.TotalSeconds)
	require.Len(t, view.Events, 3)
	require.Equal(t, 2, view.DistinctVideos)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDayActivityEmptyDay(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "daily_activity"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "date", "total_seconds"}))
	mock.ExpectQuery(`SELECT .+ FROM "user_activity" JOIN videos`).
		WillReturnRows(sqlmock.NewRows([]string{"video_id", "course_id", "video_title", "course_title", "watched_seconds", "occurred_at"}))

	view, err := GetDayActivity(db, uuid.New(), "2026-03-15")
	require.NoError(t, err)
	require.Zero(t, view.TotalSeconds)
	require.Empty(t, view.Events)
	require.Zero(t, view.DistinctVideos)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHeatmapYearBounds(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "daily_activity"`).
		WithArgs(userID.String(), "2026-01-01", "2026-12-31").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "date", "total_seconds"}).
			AddRow(userID.String(), "2026-01-02", 120).
			AddRow(userID.String(), "2026-07-14", 300))

	days, err := GetHeatmap(db, userID, 2026)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, "2026-01-02", days[0].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHeatmapRejectsBadYear(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := GetHeatmap(db, uuid.New(), 123)
	require.ErrorIs(t, err, ErrInvalidYear)
}

func TestGetDashboardSums(t *testing.T) {
	db, mock := newMockDB(t)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_seconds\), 0\) FROM "daily_activity"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7500))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "courses"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(completed_videos\), 0\) FROM "course_progress"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(12))

	view, err := GetDashboard(db, userID)
	require.NoError(t, err)
	require.Equal(t, 7500, view.TotalWatchedSeconds)
	require.Equal(t, int64(3), view.CourseCount)
	require.Equal(t, 12, view.CompletedVideos)
	require.NoError(t, mock.ExpectationsWereMet())
}
