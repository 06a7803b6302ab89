package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/internal/app/repository"
	"github.com/sellora/sellora-backend/internal/db"
	"github.com/sellora/sellora-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLogoStorage struct {
	uploads  int
	lastName string
	onUpload func() // runs before each upload returns
}

func (f *fakeLogoStorage) Upload(_ context.Context, _ []byte, filename, folder string) (string, error) {
	f.uploads++
	f.lastName = filename
	if f.onUpload != nil {
		f.onUpload()
	}
	return fmt.Sprintf("%s/%d-%s", folder, f.uploads, filename), nil
}

func (f *fakeLogoStorage) BuildImageURL(key string, _ storage.ImageTransform) string {
	return "https://cdn.test/" + key + "?format=webp&quality=auto&width=512"
}

func setupStoreServiceTest(t *testing.T) (StoreService, *gorm.DB, *fakeLogoStorage) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	storeRepo := repository.NewStoreRepository(testDB)
	logoStorage := &fakeLogoStorage{}
	storeService := NewStoreService(storeRepo, logoStorage, testDB)

	return storeService, testDB, logoStorage
}

func seedUser(t *testing.T, testDB *gorm.DB, id string) {
	t.Helper()
	user := model.User{ID: id, Email: id + "@example.com", Name: "Test User"}
	require.NoError(t, testDB.Create(&user).Error)
}

func validInput() RegisterStoreInput {
	return RegisterStoreInput{
		Name:        "Acme",
		Username:    " AcmeShop ",
		Description: "d",
		Email:       "a@b.com",
		Contact:     "123",
		Address:     "addr",
		Image:       []byte("png-bytes"),
		ImageName:   "logo.png",
	}
}

func TestStoreService_Register_Success(t *testing.T) {
	storeService, testDB, logoStorage := setupStoreServiceTest(t)
	seedUser(t, testDB, "user_1")

	result, err := storeService.Register(context.Background(), "user_1", validInput())
	require.NoError(t, err)
	assert.False(t, result.AlreadyApplied)
	assert.Equal(t, model.StoreStatusPending, result.Status)
	assert.Equal(t, 1, logoStorage.uploads)
	assert.Equal(t, "logo.png", logoStorage.lastName)

	var store model.Store
	require.NoError(t, testDB.First(&store, "user_id = ?", "user_1").Error)
	assert.Equal(t, "acmeshop", store.Username, "username must be trimmed and lower-cased")
	assert.Equal(t, model.StoreStatusPending, store.Status)
	assert.Contains(t, store.Logo, "format=webp", "the derived display URL is persisted, not the raw key")

	var user model.User
	require.NoError(t, testDB.First(&user, "id = ?", "user_1").Error)
	require.NotNil(t, user.StoreID)
	assert.Equal(t, store.ID, *user.StoreID)
}

func TestStoreService_Register_SecondCallReturnsStatus(t *testing.T) {
	storeService, testDB, logoStorage := setupStoreServiceTest(t)
	seedUser(t, testDB, "user_1")

	_, err := storeService.Register(context.Background(), "user_1", validInput())
	require.NoError(t, err)

	input := validInput()
	input.Username = "different"
	result, err := storeService.Register(context.Background(), "user_1", input)
	require.NoError(t, err)
	assert.True(t, result.AlreadyApplied)
	assert.Equal(t, model.StoreStatusPending, result.Status)

	var count int64
	require.NoError(t, testDB.Model(&model.Store{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "a second submission must not create another store")
	assert.Equal(t, 1, logoStorage.uploads, "no upload happens on the short-circuit path")
}

func TestStoreService_Register_UsernameTaken(t *testing.T) {
	storeService, testDB, _ := setupStoreServiceTest(t)
	seedUser(t, testDB, "user_1")
	seedUser(t, testDB, "user_2")

	_, err := storeService.Register(context.Background(), "user_1", validInput())
	require.NoError(t, err)

	// Different casing, same username after normalization.
	input := validInput()
	input.Username = "ACMESHOP"
	_, err = storeService.Register(context.Background(), "user_2", input)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// First store unaffected.
	var store model.Store
	require.NoError(t, testDB.First(&store, "user_id = ?", "user_1").Error)
	assert.Equal(t, "acmeshop", store.Username)
}

// flakyStoreRepo fails FindByUserID after the first call, simulating an
// infrastructure failure between the insert and the conflict re-read.
type flakyStoreRepo struct {
	repository.StoreRepository
	finds int
}

func (r *flakyStoreRepo) FindByUserID(userID string) (*model.Store, error) {
	r.finds++
	if r.finds > 1 {
		return nil, errors.New("connection refused")
	}
	return r.StoreRepository.FindByUserID(userID)
}

func TestStoreService_Register_ConcurrentUsernameConflict(t *testing.T) {
	storeService, testDB, logoStorage := setupStoreServiceTest(t)
	seedUser(t, testDB, "user_1")
	seedUser(t, testDB, "user_2")

	// A rival claims the username after the pre-reads but before the insert.
	logoStorage.onUpload = func() {
		rival := model.Store{
			UserID:   "user_2",
			Name:     "Rival",
			Username: "acmeshop",
			Email:    "r@b.com",
			Contact:  "456",
			Address:  "addr",
			Logo:     "https://cdn.test/logos/rival.png",
		}
		require.NoError(t, testDB.Create(&rival).Error)
	}

	_, err := storeService.Register(context.Background(), "user_1", validInput())
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestStoreService_Register_ConcurrentSameUserConflict(t *testing.T) {
	storeService, testDB, logoStorage := setupStoreServiceTest(t)
	seedUser(t, testDB, "user_1")

	// The same user's earlier submission lands after the pre-reads.
	logoStorage.onUpload = func() {
		earlier := model.Store{
			UserID:   "user_1",
			Name:     "Acme",
			Username: "othername",
			Email:    "a@b.com",
			Contact:  "123",
			Address:  "addr",
			Logo:     "https://cdn.test/logos/earlier.png",
		}
		require.NoError(t, testDB.Create(&earlier).Error)
	}

	result, err := storeService.Register(context.Background(), "user_1", validInput())
	require.NoError(t, err)
	assert.True(t, result.AlreadyApplied)
	assert.Equal(t, model.StoreStatusPending, result.Status)
}

func TestStoreService_Register_ConflictLookupFailure(t *testing.T) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	storeRepo := &flakyStoreRepo{StoreRepository: repository.NewStoreRepository(testDB)}
	logoStorage := &fakeLogoStorage{onUpload: func() {
		rival := model.Store{
			UserID:   "user_2",
			Name:     "Rival",
			Username: "acmeshop",
			Email:    "r@b.com",
			Contact:  "456",
			Address:  "addr",
			Logo:     "https://cdn.test/logos/rival.png",
		}
		require.NoError(t, testDB.Create(&rival).Error)
	}}
	storeService := NewStoreService(storeRepo, logoStorage, testDB)
	seedUser(t, testDB, "user_1")

	// The re-read after the duplicate-key failure hits an infra error; that
	// error must surface instead of a bogus username-taken verdict.
	_, err = storeService.Register(context.Background(), "user_1", validInput())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStoreService_Register_UserRecordMissing(t *testing.T) {
	storeService, testDB, _ := setupStoreServiceTest(t)

	_, err := storeService.Register(context.Background(), "user_ghost", validInput())
	assert.ErrorIs(t, err, ErrUserRecordMissing)

	var count int64
	require.NoError(t, testDB.Model(&model.Store{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "the transaction must roll the store back")
}

func TestStoreService_Status(t *testing.T) {
	storeService, testDB, _ := setupStoreServiceTest(t)

	status, err := storeService.Status("user_1")
	require.NoError(t, err)
	assert.Equal(t, model.StoreStatusNotRegistered, status)

	status, err = storeService.Status("")
	require.NoError(t, err)
	assert.Equal(t, model.StoreStatusNotRegistered, status)

	seedUser(t, testDB, "user_1")
	_, err = storeService.Register(context.Background(), "user_1", validInput())
	require.NoError(t, err)

	status, err = storeService.Status("user_1")
	require.NoError(t, err)
	assert.Equal(t, model.StoreStatusPending, status)
}

func TestStoreService_ListApplications(t *testing.T) {
	storeService, testDB, _ := setupStoreServiceTest(t)
	seedUser(t, testDB, "user_1")
	seedUser(t, testDB, "user_2")

	_, err := storeService.Register(context.Background(), "user_1", validInput())
	require.NoError(t, err)

	input := validInput()
	input.Username = "othershop"
	_, err = storeService.Register(context.Background(), "user_2", input)
	require.NoError(t, err)

	stores, err := storeService.ListApplications(model.StoreStatusPending)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	stores, err = storeService.ListApplications(model.StoreStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, stores)
}
