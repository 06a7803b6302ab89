package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sellora/sellora-backend/config"
	"github.com/sellora/sellora-backend/internal/app/controller"
	"github.com/sellora/sellora-backend/internal/app/repository"
	"github.com/sellora/sellora-backend/internal/app/service"
	"github.com/sellora/sellora-backend/internal/db"
	"github.com/sellora/sellora-backend/internal/middleware"
	"github.com/sellora/sellora-backend/internal/router"
	"github.com/sellora/sellora-backend/internal/scheduler"
	"github.com/sellora/sellora-backend/internal/storage"
	"github.com/sellora/sellora-backend/pkg/logger"
	"github.com/sellora/sellora-backend/pkg/queue"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Sellora Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize job queue
	jobQueue, err := queue.Init(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize job queue", err)
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			logger.Error("Failed to close job queue connection", err)
		}
	}()

	// Initialize image storage
	logoStorage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	storeRepo := repository.NewStoreRepository(db.GetDB())

	// Initialize services
	storeService := service.NewStoreService(storeRepo, logoStorage, db.GetDB())

	// Initialize controllers
	storeController := controller.NewStoreController(storeService)
	webhookController, err := controller.NewWebhookController(cfg.Webhook.SigningSecret, jobQueue)
	if err != nil {
		logger.Fatal("Failed to initialize webhook verifier", err)
	}
	adminController := controller.NewAdminController(storeService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	// Start the logo cleanup scheduler
	cleanupScheduler := scheduler.NewLogoCleanupScheduler(storeRepo, logoStorage)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start logo cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		storeController,
		webhookController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
