package user

import (
	"github.com/gin-gonic/gin"

	"github.com/salama968/LearnTube/internal/middleware"
)

// RegisterRoutes attaches user endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	users := router.Group("/users")
	{
		users.GET("/me", middleware.AuthenticateToken(), handler.Me)
	}
}
