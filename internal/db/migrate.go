package db

import (
	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/pkg/logger"
)

// Migrate runs database migrations. The unique indexes on stores.user_id and
// stores.username are the real uniqueness guard; the pre-insert lookups in
// the service only exist for precise error messages.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Store{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
