package activity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/internal/features/course"
	"github.com/salama968/LearnTube/internal/middleware"
	"github.com/salama968/LearnTube/pkg/request"
	"github.com/salama968/LearnTube/pkg/response"
)

// Handler processes watch-activity HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs an activity handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// LogChunk ingests a watched-seconds chunk for a video.
func (h *Handler) LogChunk(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var req struct {
		VideoID        string `json:"videoId" binding:"required"`
		WatchedSeconds *int   `json:"watchedSeconds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, ErrInvalidChunk.Error(), err)
		return
	}
	if *req.WatchedSeconds <= 0 {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "watched seconds must be positive", nil)
		return
	}

	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	result, err := RecordChunk(h.db.WithContext(c.Request.Context()), userID, videoID, *req.WatchedSeconds)
	if err != nil {
		h.respondError(c, err, "failed to log activity")
		return
	}

	response.Created(c, result, "Activity logged")
}

// UpdateProgress ingests a cumulative progress snapshot for a video.
func (h *Handler) UpdateProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	var req struct {
		WatchedSeconds *int `json:"watchedSeconds" binding:"required"`
		Completed      bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid progress payload", err)
		return
	}
	if *req.WatchedSeconds < 0 {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, ErrInvalidTotal.Error(), nil)
		return
	}

	result, err := RecordSnapshot(h.db.WithContext(c.Request.Context()), userID, videoID, *req.WatchedSeconds, req.Completed)
	if err != nil {
		h.respondError(c, err, "failed to update progress")
		return
	}

	response.Success(c, http.StatusOK, result, "Progress updated", nil)
}

// GetProgress returns the snapshot state for one video. No snapshot yet is
// a successful response with null data, not an error.
func (h *Handler) GetProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	progress, err := GetVideoProgress(h.db.WithContext(c.Request.Context()), userID, videoID)
	if err != nil {
		h.respondError(c, err, "failed to load progress")
		return
	}

	response.Success(c, http.StatusOK, progress, "", nil)
}

// GetCourseProgress returns the composed progress view for one course.
func (h *Handler) GetCourseProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	view, err := GetCourseProgress(h.db.WithContext(c.Request.Context()), userID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load course progress")
		return
	}

	response.Success(c, http.StatusOK, view, "", nil)
}

// GetDayActivity returns one day's aggregate and event log.
func (h *Handler) GetDayActivity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	date := c.Query("date")
	if _, err := request.ParseDate(date); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
		return
	}

	view, err := GetDayActivity(h.db.WithContext(c.Request.Context()), userID, date)
	if err != nil {
		h.respondError(c, err, "failed to load day activity")
		return
	}

	response.Success(c, http.StatusOK, view, "", nil)
}

// GetHeatmap returns the daily aggregates for one calendar year.
func (h *Handler) GetHeatmap(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	yearStr := c.DefaultQuery("year", strconv.Itoa(time.Now().Year()))
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1000 || year > 9999 {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, ErrInvalidYear.Error(), err)
		return
	}

	days, err := GetHeatmap(h.db.WithContext(c.Request.Context()), userID, year)
	if err != nil {
		h.respondError(c, err, "failed to load heatmap")
		return
	}

	response.Success(c, http.StatusOK, days, "", nil)
}

// GetDashboard returns the all-time summary.
func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	view, err := GetDashboard(h.db.WithContext(c.Request.Context()), userID)
	if err != nil {
		h.respondError(c, err, "failed to load dashboard")
		return
	}

	response.Success(c, http.StatusOK, view, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrVideoNotFound), errors.Is(err, course.ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, ErrNotVideoOwner), errors.Is(err, course.ErrNotCourseOwner):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, ErrInvalidYear):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
