// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jeranaias/correspond-tui/internal/clock"
	"github.com/jeranaias/correspond-tui/internal/storage"
)

const (
	// KeyPrefix starts every draft key.
	KeyPrefix = "autosave-"

	// DefaultWindow is the debounce window between the last input and the
	// write.
	DefaultWindow = time.Second

	storageTimeout = 2 * time.Second
)

// =============================================================================
// FORM COLLABORATOR
// =============================================================================

// FieldKind tells how a field is edited.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldSelect
	FieldFile
)

// Field is one named form input.
type Field struct {
	Name  string
	Value string
	Kind  FieldKind
}

// Form is the form a draft is attached to.
type Form interface {
	// Fields returns every input currently on the form.
	Fields() []Field

	// SetField writes value into the named input. Returns false when the
	// form has no such input.
	SetField(name, value string) bool
}

// Draft is the saved field set.
type Draft map[string]string

// Key returns the storage key for a form on pagePath.
func Key(pagePath, formID string) string {
	if formID == "" {
		return KeyPrefix + pagePath
	}
	return KeyPrefix + pagePath + "#" + formID
}

// =============================================================================
// STORE
// =============================================================================

// Store autosaves one form.
type Store struct {
	kv       storage.Store
	form     Form
	key      string
	debounce *clock.Debouncer
}

// New attaches a draft store to form. A non-positive window uses
// DefaultWindow.
func New(kv storage.Store, c clock.Clock, form Form, pagePath, formID string, window time.Duration) *Store {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{
		kv:       kv,
		form:     form,
		key:      Key(pagePath, formID),
		debounce: clock.NewDebouncer(c, window),
	}
}

// Key returns the storage key of this draft.
func (s *Store) Key() string { return s.key }

// SetWindow changes the debounce window for later input.
func (s *Store) SetWindow(window time.Duration) {
	if window > 0 {
		s.debounce.SetWindow(window)
	}
}

// CaptureInput records a change to the named field and restarts the
// debounce window. The write saves the whole form as it is when the window
// elapses, not just this field.
func (s *Store) CaptureInput(field, value string) {
	s.debounce.Trigger(s.save)
}

// Pending reports whether a write is waiting for the window to elapse.
func (s *Store) Pending() bool { return s.debounce.Pending() }

// Flush performs a pending write now.
func (s *Store) Flush() { s.debounce.Flush() }

// Cancel drops a pending write without touching the saved draft.
func (s *Store) Cancel() { s.debounce.Cancel() }

// Restore writes a saved draft back into the form and returns the number of
// fields restored. Missing or unreadable drafts restore nothing.
func (s *Store) Restore() int {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	saved, err := Load(ctx, s.kv, s.key)
	if err != nil {
		log.Printf("AUTOSAVE_ERROR | op=restore key=%s error=%v", s.key, err)
		return 0
	}
	if saved == nil {
		return 0
	}

	kinds := make(map[string]FieldKind)
	for _, f := range s.form.Fields() {
		kinds[f.Name] = f.Kind
	}

	restored := 0
	for name, value := range saved {
		kind, ok := kinds[name]
		if !ok || kind == FieldFile {
			continue
		}
		if s.form.SetField(name, value) {
			restored++
		}
	}
	if restored > 0 {
		log.Printf("AUTOSAVE_RESTORE | key=%s fields=%d", s.key, restored)
	}
	return restored
}

// Clear drops any pending write and removes the saved draft. Call it once the
// submission has been accepted.
func (s *Store) Clear() {
	s.debounce.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		log.Printf("AUTOSAVE_ERROR | op=clear key=%s error=%v", s.key, err)
	}
}

func (s *Store) save() {
	snapshot := make(Draft)
	for _, f := range s.form.Fields() {
		if f.Kind == FieldFile {
			continue
		}
		snapshot[f.Name] = f.Value
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("AUTOSAVE_ERROR | op=encode key=%s error=%v", s.key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		log.Printf("AUTOSAVE_ERROR | op=save key=%s error=%v", s.key, err)
	}
}

// =============================================================================
// INSPECTION
// =============================================================================

// Load reads the draft stored under key. It returns nil and no error when
// there is none.
func Load(ctx context.Context, kv storage.Store, key string) (Draft, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", key, err)
	}
	return d, nil
}

// Keys lists the keys of every stored draft.
func Keys(ctx context.Context, kv storage.Store) ([]string, error) {
	return kv.List(ctx, KeyPrefix)
}

// Remove deletes the draft stored under key.
func Remove(ctx context.Context, kv storage.Store, key string) error {
	return kv.Delete(ctx, key)
}
