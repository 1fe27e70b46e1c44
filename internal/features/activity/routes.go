package activity

import (
	"github.com/gin-gonic/gin"

	"github.com/salama968/LearnTube/internal/middleware"
)

// RegisterRoutes attaches watch-activity endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	activity := router.Group("/activity", middleware.AuthenticateToken())
	{
		activity.POST("/log", handler.LogChunk)
		activity.PATCH("/progress/:videoId", handler.UpdateProgress)
		activity.GET("/progress/:videoId", handler.GetProgress)
		activity.GET("/course-progress/:courseId", handler.GetCourseProgress)
		activity.GET("/day-activity", handler.GetDayActivity)
		activity.GET("/heatmap", handler.GetHeatmap)
		activity.GET("/dashboard", handler.GetDashboard)
	}
}
