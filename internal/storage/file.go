// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/correspond-tui/internal/util"
)

// storedValue is the on-disk record for one key.
type storedValue struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore keeps one JSON file per key in a directory. Writes are atomic,
// so a crash leaves either the old or the new value.
type FileStore struct {
	// BaseDir holds the value files. Default: ~/.correspond/drafts/
	BaseDir string

	mu sync.Mutex
}

// NewFileStore creates a store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// filePath maps a key to a file name that is safe on every platform.
func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.BaseDir, hex.EncodeToString([]byte(key))+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var record storedValue
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt value file for %q: %w", key, err)
	}
	return record.Value, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := json.MarshalIndent(storedValue{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return util.AtomicWriteFile(s.filePath(key), data, 0600)
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // Not one of ours
		}
		if key := string(raw); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }
