package repository

import (
	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByID(id string) (*model.User, error)
	Upsert(user *model.User) error
	Delete(id string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user or refreshes its provider-owned fields. The
// store_id link is deliberately left out of the update set so a replayed
// user.updated event cannot unlink an existing store.
func (r *userRepository) Upsert(user *model.User) error {
	logger.Debug("Upserting user from identity event", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "image", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		logger.Error("Failed to upsert user", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	return nil
}

func (r *userRepository) Delete(id string) error {
	logger.Debug("Deleting user", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.Delete(&model.User{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}
