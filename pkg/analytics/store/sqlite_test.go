package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/analytics/pkg/analytics/store"
)

func TestSQLiteStore_SaveLoad(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load()
	assert.ErrorIs(t, err, store.ErrNotFound)

	state := store.State{
		AnonymousID:  "anon-1",
		UserID:       "u1",
		ConnectedIDs: map[string]string{"u1": "anon-1"},
	}
	require.NoError(t, s.Save(state))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(store.State{AnonymousID: "anon-1"}))
	require.NoError(t, s.Save(store.State{AnonymousID: "anon-2", UserID: "u1"}))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "anon-2", loaded.AnonymousID)
	assert.Equal(t, "u1", loaded.UserID)
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analytics.db")

	s1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.Save(store.State{AnonymousID: "persistent"}))
	require.NoError(t, s1.Close())

	// Second store instance (reopening the database)
	s2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.Load()
	require.NoError(t, err)
	assert.Equal(t, "persistent", loaded.AnonymousID)
}

func TestSQLiteStore_Closed(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Second close is a no-op.
	require.NoError(t, s.Close())

	_, err = s.Load()
	assert.ErrorIs(t, err, store.ErrStoreClosed)
	assert.ErrorIs(t, s.Save(store.State{}), store.ErrStoreClosed)
}
