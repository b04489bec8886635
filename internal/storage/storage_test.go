// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SHARED CONTRACT
// =============================================================================

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "drafts"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
		"file":   fileStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			value, err := store.Get(ctx, "autosave-/correspondence/new")
			require.NoError(t, err)
			assert.Nil(t, value, "absent key returns nil")

			require.NoError(t, store.Set(ctx, "autosave-/correspondence/new", []byte(`{"subject":"A"}`)))
			value, err = store.Get(ctx, "autosave-/correspondence/new")
			require.NoError(t, err)
			assert.Equal(t, `{"subject":"A"}`, string(value))

			require.NoError(t, store.Set(ctx, "autosave-/correspondence/new", []byte(`{"subject":"B"}`)))
			value, err = store.Get(ctx, "autosave-/correspondence/new")
			require.NoError(t, err)
			assert.Equal(t, `{"subject":"B"}`, string(value))

			require.NoError(t, store.Delete(ctx, "autosave-/correspondence/new"))
			require.NoError(t, store.Delete(ctx, "autosave-/correspondence/new"), "second delete is not an error")
			value, err = store.Get(ctx, "autosave-/correspondence/new")
			require.NoError(t, err)
			assert.Nil(t, value)
		})
	}
}

func TestStore_ListByPrefix(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "autosave-/correspondence/7/edit", []byte("{}")))
			require.NoError(t, store.Set(ctx, "autosave-/correspondence/new", []byte("{}")))
			require.NoError(t, store.Set(ctx, "correspondence-view", []byte("table")))

			keys, err := store.List(ctx, "autosave-")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"autosave-/correspondence/7/edit",
				"autosave-/correspondence/new",
			}, keys)

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestStore_RejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Set(ctx, "", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

// =============================================================================
// BACKEND SPECIFICS
// =============================================================================

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.filePath("broken"), []byte("{not json"), 0600))
	_, err = store.Get(ctx, "broken")
	assert.Error(t, err)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0600))
	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set(ctx, "k", nil), ErrClosed)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendSQLite, BackendFile, BackendMemory, ""} {
		store, err := Open(backend, dir)
		require.NoError(t, err, backend)
		require.NoError(t, store.Close())
	}

	_, err := Open("redis", dir)
	assert.Error(t, err)

	fallback := OpenOrMemory("redis", dir)
	_, ok := fallback.(*MemoryStore)
	assert.True(t, ok)
}
