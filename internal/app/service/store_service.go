package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/internal/app/repository"
	apperrors "github.com/sellora/sellora-backend/internal/errors"
	"github.com/sellora/sellora-backend/internal/storage"
	"github.com/sellora/sellora-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserRecordMissing means the caller authenticated but no user row
	// exists, i.e. the identity sync never ran for this account. The caller
	// has to re-authenticate so the provider re-delivers the event.
	ErrUserRecordMissing = errors.New("user record not found")
)

// LogoStorage is the slice of the image store the registration flow needs.
type LogoStorage interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (string, error)
	BuildImageURL(key string, transform storage.ImageTransform) string
}

const logoFolder = "logos"

// logoTransform matches what the storefront renders: a 512px webp at
// automatic quality.
var logoTransform = storage.ImageTransform{
	Quality: "auto",
	Format:  "webp",
	Width:   512,
}

type RegisterStoreInput struct {
	Name        string
	Username    string
	Description string
	Email       string
	Contact     string
	Address     string
	Image       []byte
	ImageName   string
}

type RegisterResult struct {
	// AlreadyApplied is set when the caller had a store before this call;
	// Status then carries that store's current status.
	AlreadyApplied bool
	Status         model.StoreStatus
}

type StoreService interface {
	Register(ctx context.Context, userID string, input RegisterStoreInput) (*RegisterResult, error)
	Status(userID string) (model.StoreStatus, error)
	ListApplications(status model.StoreStatus) ([]model.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	storage   LogoStorage
	db        *gorm.DB
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	logoStorage LogoStorage,
	db *gorm.DB,
) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		storage:   logoStorage,
		db:        db,
	}
}

// Register runs the store application flow: idempotent short-circuit when the
// caller already applied, username uniqueness guard, logo upload, then store
// creation and user linking in one transaction. The unique indexes on
// stores.user_id and stores.username back up the pre-reads, so two
// concurrent submissions cannot both win.
func (s *storeService) Register(ctx context.Context, userID string, input RegisterStoreInput) (*RegisterResult, error) {
	logger.Info("Processing store registration", map[string]interface{}{
		"user_id":  userID,
		"username": input.Username,
	})

	// Caller already has a store: report its status, do not create another.
	existing, err := s.storeRepo.FindByUserID(userID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		logger.Info("Store already registered for user", map[string]interface{}{
			"user_id": userID,
			"status":  existing.Status,
		})
		return &RegisterResult{AlreadyApplied: true, Status: existing.Status}, nil
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))

	taken, err := s.storeRepo.FindByUsername(username)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if taken != nil {
		logger.Warn("Store username already taken", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameTaken
	}

	key, err := s.storage.Upload(ctx, input.Image, input.ImageName, logoFolder)
	if err != nil {
		logger.Error("Failed to upload store logo", err, map[string]interface{}{
			"user_id":  userID,
			"filename": input.ImageName,
		})
		return nil, err
	}
	logo := s.storage.BuildImageURL(key, logoTransform)

	store := &model.Store{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Username:    username,
		Email:       input.Email,
		Contact:     input.Contact,
		Address:     input.Address,
		Logo:        logo,
		Status:      model.StoreStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			return err
		}

		// Link the store to the user. Zero rows means the user row was
		// never provisioned; abort so no orphaned store is left behind.
		result := tx.Model(&model.User{}).Where("id = ?", userID).Update("store_id", store.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserRecordMissing
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrUserRecordMissing) {
			logger.Error("User record missing during store registration", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrUserRecordMissing
		}
		if apperrors.IsDuplicateKey(err) {
			// A concurrent request got past the pre-reads first. Decide
			// which constraint fired by re-reading.
			racing, lookupErr := s.storeRepo.FindByUserID(userID)
			if lookupErr == nil {
				logger.Info("Concurrent registration detected for user", map[string]interface{}{
					"user_id": userID,
				})
				return &RegisterResult{AlreadyApplied: true, Status: racing.Status}, nil
			}
			if !apperrors.IsNotFound(lookupErr) {
				logger.Error("Failed to re-read store after conflicting insert", lookupErr, map[string]interface{}{
					"user_id": userID,
				})
				return nil, lookupErr
			}
			return nil, ErrUsernameTaken
		}
		logger.Error("Failed to register store", err, map[string]interface{}{
			"user_id":  userID,
			"username": username,
		})
		return nil, err
	}

	logger.Info("Store registered, waiting for approval", map[string]interface{}{
		"store_id": store.ID,
		"user_id":  userID,
		"username": username,
	})
	return &RegisterResult{Status: store.Status}, nil
}

// Status returns the caller's store status, or the not-registered sentinel.
// A missing store is never an error on this path.
func (s *storeService) Status(userID string) (model.StoreStatus, error) {
	if userID == "" {
		return model.StoreStatusNotRegistered, nil
	}

	store, err := s.storeRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return model.StoreStatusNotRegistered, nil
		}
		logger.Error("Failed to look up store status", err, map[string]interface{}{
			"user_id": userID,
		})
		return "", err
	}

	return store.Status, nil
}

func (s *storeService) ListApplications(status model.StoreStatus) ([]model.Store, error) {
	return s.storeRepo.FindAll(repository.StoreFilter{Status: status})
}
