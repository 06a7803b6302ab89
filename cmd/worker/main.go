package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sellora/sellora-backend/config"
	"github.com/sellora/sellora-backend/internal/app/repository"
	"github.com/sellora/sellora-backend/internal/app/service"
	"github.com/sellora/sellora-backend/internal/db"
	"github.com/sellora/sellora-backend/pkg/logger"
	"github.com/sellora/sellora-backend/pkg/queue"
)

// receiveTimeout bounds each blocking pop so the worker can notice shutdown.
const receiveTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	logger.Info("Starting identity sync worker", map[string]interface{}{
		"environment": cfg.Server.Environment,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	jobQueue, err := queue.Init(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize job queue", err)
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			logger.Error("Failed to close job queue connection", err)
		}
	}()

	userRepo := repository.NewUserRepository(db.GetDB())
	syncService := service.NewIdentitySyncService(userRepo)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down identity sync worker...")
		cancel()
	}()

	channels := service.IdentityEventChannels()
	logger.Info("Worker consuming identity events", map[string]interface{}{
		"channels": channels,
	})

	for {
		name, payload, err := jobQueue.Receive(ctx, channels, receiveTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if isTimeout(err) {
				continue
			}
			logger.Error("Failed to receive identity event", err)
			time.Sleep(time.Second)
			continue
		}

		// A bad payload is logged and skipped; the queue must keep draining.
		if err := syncService.HandleEvent(name, payload); err != nil {
			logger.Error("Failed to apply identity event", err, map[string]interface{}{
				"event": name,
			})
		}
	}

	logger.Info("Identity sync worker stopped")
}

// isTimeout reports whether the error is the empty-poll result of a bounded
// blocking pop (go-redis surfaces it as redis.Nil).
func isTimeout(err error) bool {
	return errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded)
}
