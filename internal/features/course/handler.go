package course

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/internal/middleware"
	"github.com/salama968/LearnTube/pkg/pagination"
	"github.com/salama968/LearnTube/pkg/response"
	"github.com/salama968/LearnTube/pkg/youtube"
)

// Handler processes course HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	source MetadataSource
}

// NewHandler constructs a course handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, source MetadataSource) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
		source: source,
	}
}

// Create builds a new course from a YouTube URL.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	crs, err := CreateFromURL(c.Request.Context(), h.db.WithContext(c.Request.Context()), h.source, userID, req.URL)
	if err != nil {
		h.respondError(c, err, "failed to create course")
		return
	}

	response.Created(c, crs, "Course created")
}

// List returns the user's courses, paginated.
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	params := pagination.Extract(c)
	courses, total, err := List(h.db.WithContext(c.Request.Context()), ListFilters{
		UserID:  userID,
		Keyword: c.Query("filterKeyword"),
	}, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// GetByID returns a single course with its videos in order.
func (h *Handler) GetByID(c *gin.Context) {
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

	crs, err := GetWithVideos(h.db.WithContext(c.Request.Context()), courseID, userID)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	response.Success(c, http.StatusOK, crs, "", nil)
}

// Delete removes a course and its activity data.
func (h *Handler) Delete(c *gin.Context) {
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

	if err := Delete(h.db.WithContext(c.Request.Context()), courseID, userID); err != nil {
		h.respondError(c, err, "failed to delete course")
		return
	}

	response.Success(c, http.StatusOK, true, "Course deleted", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, youtube.ErrInvalidURL):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, youtube.ErrVideoNotFound),
		errors.Is(err, youtube.ErrPlaylistNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, ErrNotCourseOwner):
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, ErrDuplicateCourse):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, err.Error(), err)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
