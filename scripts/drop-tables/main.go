package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/pkg/config"
	"github.com/salama968/LearnTube/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Failed to get SQL DB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		appLogger.Error("Failed to ping database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Database connection established")

	fmt.Println("\nWARNING: This will DROP ALL TABLES in the database!")
	fmt.Println("   This action CANNOT be undone.")
	fmt.Println("   All data will be permanently deleted.")
	fmt.Print("\nType 'DROP ALL TABLES' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	confirmation, _ := reader.ReadString('\n')
	confirmation = strings.TrimSpace(confirmation)

	if confirmation != "DROP ALL TABLES" {
		fmt.Println("\nOperation cancelled. Database unchanged.")
		os.Exit(0)
	}

	// Reverse dependency order
	tables := []string{
		"course_progress",
		"daily_activity",
		"progress",
		"user_activity",
		"videos",
		"courses",
		"users",
	}

	appLogger.Info("Starting to drop tables...")

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q CASCADE`, table)).Error; err != nil {
			appLogger.Error("Failed to drop table",
				slog.String("table", table),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		appLogger.Info("Dropped table", slog.String("table", table))
	}

	appLogger.Info("All tables dropped successfully")
	fmt.Println("\nAll tables dropped.")
}
