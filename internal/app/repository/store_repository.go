package repository

import (
	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreFilter struct {
	Status model.StoreStatus
}

type StoreRepository interface {
	Create(store *model.Store) error
	FindByUserID(userID string) (*model.Store, error)
	FindByUsername(username string) (*model.Store, error)
	FindAll(filter StoreFilter) ([]model.Store, error)
	AllLogoURLs() ([]string, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"username": store.Username,
		"user_id":  store.UserID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"username": store.Username,
			"user_id":  store.UserID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"username": store.Username,
	})
	return nil
}

func (r *storeRepository) FindByUserID(userID string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("user_id = ?", userID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByUsername looks up a store by its lower-cased username. Callers are
// expected to lower-case before calling; usernames are stored lower-cased.
func (r *storeRepository) FindByUsername(username string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("username = ?", username).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindAll(filter StoreFilter) ([]model.Store, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"status": filter.Status,
	})

	query := r.db.Model(&model.Store{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var stores []model.Store
	if err := query.Order("created_at ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, err
	}

	logger.Debug("Stores found", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

// AllLogoURLs returns the logo URL of every store, referenced by the logo
// garbage collector to decide which uploaded objects are still in use.
func (r *storeRepository) AllLogoURLs() ([]string, error) {
	var urls []string
	if err := r.db.Model(&model.Store{}).Pluck("logo", &urls).Error; err != nil {
		logger.Error("Failed to list store logo URLs", err)
		return nil, err
	}
	return urls, nil
}
