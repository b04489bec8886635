// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence behind form drafts.
//
// Every backend implements Store: Get, Set, Delete and prefix List over
// string keys and byte values. Get returns nil and no error for a missing
// key.
//
// # Backends
//
//   - SQLiteStore: a single table in <data-dir>/drafts.db (modernc.org/sqlite)
//   - FileStore: one JSON file per key under <data-dir>/drafts/
//   - MemoryStore: process-lifetime map, used for tests and as a fallback
//
// # Usage
//
//	kv := storage.OpenOrMemory(cfg.Storage.Backend, dataDir)
//	defer kv.Close()
//	err := kv.Set(ctx, "autosave-/correspondence/new", data)
package storage
