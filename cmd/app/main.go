package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salama968/LearnTube/internal/http/routes"
	"github.com/salama968/LearnTube/pkg/cache"
	"github.com/salama968/LearnTube/pkg/config"
	"github.com/salama968/LearnTube/pkg/database"
	"github.com/salama968/LearnTube/pkg/jobs"
	"github.com/salama968/LearnTube/pkg/logger"
	"github.com/salama968/LearnTube/pkg/metrics"
	"github.com/salama968/LearnTube/pkg/middleware"
	"github.com/salama968/LearnTube/pkg/request"
	"github.com/salama968/LearnTube/pkg/youtube"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	// Metadata cache: Redis when configured, in-process otherwise
	var metadataCache cache.Client
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		metadataCache = redisCache
		appLogger.Info("redis cache connected", slog.String("addr", cfg.Redis.Addr))
	} else {
		metadataCache = cache.NewMemoryClient(6 * time.Hour)
		appLogger.Info("redis not configured, using in-process cache")
	}
	defer metadataCache.Close()

	ytClient, err := youtube.NewClient(ctx, cfg.Google.YouTubeAPIKey, metadataCache, appLogger)
	if err != nil {
		appLogger.Error("youtube client initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(appLogger)
		scheduler.AddJob(
			jobs.NewMetadataRefreshJob(db, &metadataAdapter{client: ytClient}, appLogger),
			time.Duration(cfg.Jobs.MetadataRefreshMinutes)*time.Minute,
		)
		scheduler.AddJob(
			jobs.NewTokenPruneJob(db, appLogger),
			time.Duration(cfg.Jobs.TokenPruneHours)*time.Hour,
		)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := gin.New()

	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())                       // Add request IDs for tracing
	router.Use(middleware.Compression(middleware.BestSpeed)) // Compress responses (gzip)
	router.Use(middleware.RequestLogger(appLogger))          // Log all requests
	router.Use(middleware.SecurityHeaders())                 // Add security headers
	router.Use(middleware.CacheControl())                    // Set cache headers
	router.Use(middleware.RequestSizeLimit(1 * 1024 * 1024)) // 1MB limit
	router.Use(metrics.Middleware())                         // Collect Prometheus metrics
	router.Use(request.Handler(appLogger))                   // Request context handler

	// Rate limiting (100 requests per minute per IP)
	rateLimiter := middleware.NewRateLimiter(100, time.Minute)
	router.Use(rateLimiter.Middleware())

	routes.Register(router, cfg, db, appLogger, ytClient)

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	appLogger.Info("server started successfully")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}

// metadataAdapter narrows the YouTube client to the jobs interface.
type metadataAdapter struct {
	client *youtube.Client
}

func (a *metadataAdapter) GetVideoMetadata(ctx context.Context, youtubeVideoID string) (*jobs.VideoMetadata, error) {
	meta, err := a.client.GetVideoMetadata(ctx, youtubeVideoID)
	if err != nil {
		return nil, err
	}
	return &jobs.VideoMetadata{
		Title:           meta.Title,
		ThumbnailURL:    meta.ThumbnailURL,
		DurationSeconds: meta.DurationSeconds,
	}, nil
}
