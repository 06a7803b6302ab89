package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/internal/app/repository"
	"github.com/sellora/sellora-backend/internal/db"
	"github.com/sellora/sellora-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStorage struct {
	objects []storage.ObjectInfo
	deleted []string
}

func (f *fakeObjectStorage) ListKeys(_ context.Context, _ string) ([]storage.ObjectInfo, error) {
	return f.objects, nil
}

func (f *fakeObjectStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestLogoCleanup_DeletesOnlyOldOrphans(t *testing.T) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	storeRepo := repository.NewStoreRepository(testDB)

	// One store referencing its logo object through the derived CDN URL.
	store := &model.Store{
		UserID:   "user_1",
		Name:     "Acme",
		Username: "acmeshop",
		Email:    "a@b.com",
		Contact:  "123",
		Address:  "addr",
		Logo:     "https://cdn.test/logos/kept.png?format=webp&width=512",
	}
	require.NoError(t, storeRepo.Create(store))

	old := time.Now().Add(-48 * time.Hour)
	fresh := time.Now().Add(-time.Hour)

	objectStorage := &fakeObjectStorage{
		objects: []storage.ObjectInfo{
			{Key: "logos/kept.png", LastModified: old},     // referenced: keep
			{Key: "logos/orphan.png", LastModified: old},   // orphaned and old: delete
			{Key: "logos/recent.png", LastModified: fresh}, // orphaned but young: keep
		},
	}

	cleanup := NewLogoCleanupScheduler(storeRepo, objectStorage)
	require.NoError(t, cleanup.CleanupOnce(context.Background()))

	assert.Equal(t, []string{"logos/orphan.png"}, objectStorage.deleted)
}
