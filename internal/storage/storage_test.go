package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ignite/listkeeper/internal/config"
	"github.com/ignite/listkeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := New(context.Background(), config.StorageConfig{
		Path: filepath.Join(t.TempDir(), "subscribers.json"),
	})
	require.NoError(t, err)
	return store
}

func sampleCollection() map[string]*domain.Subscriber {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return map[string]*domain.Subscriber{
		"alice@example.com": {
			Email:             "alice@example.com",
			JoinedDate:        now,
			Status:            domain.StatusPending,
			VerificationToken: "token-alice",
			Verified:          false,
			LastUpdated:       now,
			Metadata:          map[string]any{"source": "landing-page"},
		},
		"bob@example.com": {
			Email:             "bob@example.com",
			JoinedDate:        now.Add(-24 * time.Hour),
			Status:            domain.StatusActive,
			VerificationToken: "token-bob",
			Verified:          true,
			LastUpdated:       now,
			Metadata:          map[string]any{},
		},
	}
}

func TestLoad_MissingFileReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	subs := store.Load(context.Background())
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := sampleCollection()
	require.NoError(t, store.Save(ctx, original))

	loaded := store.Load(ctx)
	require.Len(t, loaded, 2)

	for email, want := range original {
		got, ok := loaded[email]
		require.True(t, ok, "missing record for %s", email)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.VerificationToken, got.VerificationToken)
		assert.Equal(t, want.Verified, got.Verified)
		assert.True(t, want.JoinedDate.Equal(got.JoinedDate))
		assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
	}
	assert.Equal(t, "landing-page", loaded["alice@example.com"].Metadata["source"])
}

func TestSave_FullRewrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCollection()))

	smaller := map[string]*domain.Subscriber{
		"carol@example.com": {Email: "carol@example.com", Status: domain.StatusPending},
	}
	require.NoError(t, store.Save(ctx, smaller))

	loaded := store.Load(ctx)
	require.Len(t, loaded, 1, "save must overwrite, not merge")
	assert.Contains(t, loaded, "carol@example.com")
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), sampleCollection()))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}

func TestLoad_CorruptFileReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	subs := store.Load(context.Background())
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{
		Path: filepath.Join(t.TempDir(), "nested", "deeper", "subscribers.json"),
	})
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), sampleCollection()))
	assert.FileExists(t, store.Path())
}
