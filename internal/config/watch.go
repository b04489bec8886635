// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/correspond-tui/internal/clock"
)

// WatchDebounce coalesces the burst of events an editor produces on save.
const WatchDebounce = 200 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes each
// valid result to onChange. Invalid files are logged and skipped. Watch
// blocks until ctx is done.
//
// The parent directory is watched rather than the file so that editors that
// save by rename are still seen.
func Watch(ctx context.Context, c clock.Clock, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	reload := func() {
		cfg, err := LoadFromPath(path)
		if err != nil {
			log.Printf("CONFIG_RELOAD_ERROR | path=%s error=%v", path, err)
			return
		}
		log.Printf("CONFIG_RELOAD | path=%s", path)
		onChange(cfg)
	}
	debounce := clock.NewDebouncer(c, WatchDebounce)
	defer debounce.Cancel()

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Trigger(reload)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("CONFIG_WATCH_ERROR | path=%s error=%v", path, err)
		}
	}
}
