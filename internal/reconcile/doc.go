// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reconcile keeps the correspondence list consistent with push
// notifications from the server.
//
// Rules:
//   - added for a known id updates the row in place; otherwise the row is
//     inserted at the head (most recent first)
//   - updated for an unknown id inserts the row; otherwise the row content is
//     replaced and its position kept
//   - deleted for an unknown or already-exiting id does nothing; otherwise the
//     row is marked exiting and removed after the transition delay
//
// Each id maps to at most one row. Every delivered entity event also raises a
// best-effort notification after the list has been updated.
//
// List methods must be called from the UI loop.
package reconcile
