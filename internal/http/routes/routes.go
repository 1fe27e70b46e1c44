package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/internal/features/activity"
	"github.com/salama968/LearnTube/internal/features/auth"
	"github.com/salama968/LearnTube/internal/features/course"
	"github.com/salama968/LearnTube/internal/features/user"
	"github.com/salama968/LearnTube/internal/middleware"
	"github.com/salama968/LearnTube/pkg/config"
	"github.com/salama968/LearnTube/pkg/health"
)

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, metadataSource course.MetadataSource) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")

	middleware.Initialize(db, cfg.JWTSecret, logger)

	authHandler := auth.NewHandler(db, logger, cfg)
	auth.RegisterRoutes(api, authHandler)

	userHandler := user.NewHandler(db, logger)
	user.RegisterRoutes(api, userHandler)

	courseHandler := course.NewHandler(db, logger, metadataSource)
	course.RegisterRoutes(api, courseHandler)

	activityHandler := activity.NewHandler(db, logger)
	activity.RegisterRoutes(api, activityHandler)
}
