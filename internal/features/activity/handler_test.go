package activity

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/internal/middleware"
)

func newTestRouter(t *testing.T, db *gorm.DB, authenticated bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(db, logger)

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set("user", &middleware.User{ID: uuid.New()})
			c.Next()
		})
	}

	api := router.Group("/api/activity")
	api.POST("/log", handler.LogChunk)
	api.PATCH("/progress/:videoId", handler.UpdateProgress)
	api.GET("/day-activity", handler.GetDayActivity)
	api.GET("/heatmap", handler.GetHeatmap)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogChunkRequiresIdentity(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, false)

	w := doJSON(router, http.MethodPost, "/api/activity/log",
		`{"videoId":"`+uuid.NewString()+`","watchedSeconds":30}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogChunkRejectsMissingChunk(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, true)

	w := doJSON(router, http.MethodPost, "/api/activity/log",
		`{"videoId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogChunkRejectsNonPositiveChunk(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, true)

	for _, body := range []string{
		`{"videoId":"` + uuid.NewString() + `","watchedSeconds":0}`,
		`{"videoId":"` + uuid.NewString() + `","watchedSeconds":-15}`,
	} {
		w := doJSON(router, http.MethodPost, "/api/activity/log", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestLogChunkRejectsMalformedVideoID(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, true)

	w := doJSON(router, http.MethodPost, "/api/activity/log",
		`{"videoId":"not-a-uuid","watchedSeconds":30}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProgressRejectsNegativeTotal(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, true)

	w := doJSON(router, http.MethodPatch, "/api/activity/progress/"+uuid.NewString(),
		`{"watchedSeconds":-1,"completed":false}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProgressAcceptsZeroTotal(t *testing.T) {
	db, mock := newMockDB(t)
	router := newTestRouter(t, db, true)

	videoID := uuid.New()
	expectVideoLookup(mock, videoID, uuid.New(), uuid.Nil)

	// user from the router is random, so ownership fails; the point here is
	// that zero passes validation and reaches the engine
	w := doJSON(router, http.MethodPatch, "/api/activity/progress/"+videoID.String(),
		`{"watchedSeconds":0,"completed":false}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDayActivityRejectsBadDate(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, true)

	for _, date := range []string{"", "15-03-2026", "2026/03/15", "yesterday"} {
		w := doJSON(router, http.MethodGet, "/api/activity/day-activity?date="+date, "")
		require.Equal(t, http.StatusBadRequest, w.Code, "date %q", date)
	}
}

func TestHeatmapRejectsBadYear(t *testing.T) {
	db, _ := newMockDB(t)
	router := newTestRouter(t, db, true)

	for _, year := range []string{"abc", "99", "12345"} {
		w := doJSON(router, http.MethodGet, "/api/activity/heatmap?year="+year, "")
		require.Equal(t, http.StatusBadRequest, w.Code, "year %q", year)
	}
}
