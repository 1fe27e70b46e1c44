package user

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/internal/middleware"
	"github.com/salama968/LearnTube/pkg/response"
)

// Handler processes user HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	usr, err := Get(h.db.WithContext(c.Request.Context()), userID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load user", err)
		return
	}

	response.Success(c, http.StatusOK, usr, "", nil)
}
