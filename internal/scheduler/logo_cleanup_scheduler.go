package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sellora/sellora-backend/internal/app/repository"
	"github.com/sellora/sellora-backend/internal/storage"
	"github.com/sellora/sellora-backend/pkg/logger"
)

// minObjectAge keeps just-uploaded logos safe: an object younger than this
// may belong to a registration that has not committed yet.
const minObjectAge = 24 * time.Hour

const logoFolder = "logos"

// ObjectStorage is the slice of the image store the cleanup job needs.
type ObjectStorage interface {
	ListKeys(ctx context.Context, folder string) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// LogoCleanupScheduler deletes uploaded logo objects that no store
// references. Uploads happen before the store insert, so an insert failure
// leaves an orphaned object behind; this job is the compensation.
type LogoCleanupScheduler struct {
	cron      *cron.Cron
	storeRepo repository.StoreRepository
	storage   ObjectStorage
}

func NewLogoCleanupScheduler(storeRepo repository.StoreRepository, objectStorage ObjectStorage) *LogoCleanupScheduler {
	return &LogoCleanupScheduler{
		cron:      cron.New(),
		storeRepo: storeRepo,
		storage:   objectStorage,
	}
}

// Start schedules the cleanup daily at 04:00.
func (s *LogoCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled logo cleanup")

		if err := s.CleanupOnce(context.Background()); err != nil {
			logger.Error("Logo cleanup failed", err)
			return
		}

		logger.Info("Logo cleanup completed")
	})
	if err != nil {
		logger.Error("Failed to schedule logo cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Logo cleanup scheduler started (daily at 4:00 AM)")
	return nil
}

// Stop stops the scheduler.
func (s *LogoCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Logo cleanup scheduler stopped")
}

// CleanupOnce runs one cleanup pass: every object under the logo folder
// that is older than minObjectAge and referenced by no store gets deleted.
func (s *LogoCleanupScheduler) CleanupOnce(ctx context.Context) error {
	urls, err := s.storeRepo.AllLogoURLs()
	if err != nil {
		return err
	}

	objects, err := s.storage.ListKeys(ctx, logoFolder)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-minObjectAge)
	deleted := 0

	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			continue
		}
		if referenced(urls, obj.Key) {
			continue
		}

		if err := s.storage.Delete(ctx, obj.Key); err != nil {
			logger.Error("Failed to delete orphaned logo", err, map[string]interface{}{
				"key": obj.Key,
			})
			continue
		}
		deleted++
	}

	logger.Info("Orphaned logos removed", map[string]interface{}{
		"scanned": len(objects),
		"deleted": deleted,
	})
	return nil
}

// referenced reports whether any stored logo URL points at the object key.
// Logo URLs are derived from keys with a CDN base and query parameters, so
// containment is the right check.
func referenced(urls []string, key string) bool {
	for _, url := range urls {
		if strings.Contains(url, key) {
			return true
		}
	}
	return false
}
