package course

import (
	"github.com/gin-gonic/gin"

	"github.com/salama968/LearnTube/internal/middleware"
)

// RegisterRoutes attaches course endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	courses := router.Group("/courses", middleware.AuthenticateToken())
	{
		courses.POST("", handler.Create)
		courses.GET("", handler.List)
		courses.GET("/:courseId", handler.GetByID)
		courses.DELETE("/:courseId", handler.Delete)
	}
}
