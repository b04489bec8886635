// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed     = errors.New("storage closed")
	ErrInvalidKey = errors.New("invalid storage key")
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a durable string-keyed byte store, the client's equivalent of
// browser local storage.
type Store interface {
	// Get returns the value stored under key, or nil and no error when the
	// key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys that start with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the store.
	Close() error
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	return nil
}

// =============================================================================
// BACKEND SELECTION
// =============================================================================

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open opens the named backend rooted at dataDir. An unknown backend name is
// an error. Callers that must keep running can use OpenOrMemory.
func Open(backend, dataDir string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendSQLite, "":
		return OpenSQLite(filepath.Join(dataDir, "drafts.db"))
	case BackendFile:
		return NewFileStore(filepath.Join(dataDir, "drafts"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// OpenOrMemory opens the backend and falls back to an in-memory store when it
// cannot be opened. Drafts are then lost on exit but the UI keeps working.
func OpenOrMemory(backend, dataDir string) Store {
	store, err := Open(backend, dataDir)
	if err != nil {
		log.Printf("STORAGE_FALLBACK | backend=%s error=%v using=memory", backend, err)
		return NewMemoryStore()
	}
	return store
}
