package favorite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"academy/internal/adapters/storage"
	favoriteStore "academy/internal/adapters/storage/favorite"
	"academy/internal/adapters/storage/localstorage"
	domain "academy/internal/domain/favorite"
)

func newKV(t *testing.T) localstorage.Store {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.MigrateDB(db))
	return localstorage.NewSQLiteStore(db)
}

func TestRepository_LoadAbsent(t *testing.T) {
	repo := favoriteStore.NewRepository(newKV(t), "visitor-1")
	set, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	repo := favoriteStore.NewRepository(kv, "visitor-1")

	require.NoError(t, repo.Save(ctx, domain.NewSet("course_003", "course_001")))

	raw, ok, err := kv.GetItem(ctx, "visitor-1", domain.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["course_003","course_001"]`, raw)

	fresh := favoriteStore.NewRepository(kv, "visitor-1")
	set, err := fresh.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"course_003", "course_001"}, set.IDs())
}

func TestRepository_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	require.NoError(t, kv.SetItem(ctx, "visitor-1", domain.StorageKey, "invalid json"))

	_, err := favoriteStore.NewRepository(kv, "visitor-1").Load(ctx)
	assert.True(t, errors.Is(err, domain.ErrCorruptState), "got %v", err)
}

func TestRepository_SaveFailure(t *testing.T) {
	kv := localstorage.NewMemoryStore()
	kv.SetErr = localstorage.ErrQuotaExceeded

	err := favoriteStore.NewRepository(kv, "visitor-1").Save(context.Background(), domain.NewSet("a"))
	assert.True(t, errors.Is(err, localstorage.ErrQuotaExceeded), "got %v", err)
}
