// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the per-run UI context: who the user is, which push
// room they joined, and whether the server connection and sync are live.
//
// # Key Types
//
//   - Session: connection and sync state for one run of the TUI
//   - Status: immutable snapshot for rendering the status bar
//   - TickMsg: Bubble Tea message that refreshes relative times
//
// # Usage
//
//	sess := session.New(cfg.User.ID, cfg.User.Room, "websocket")
//	transport, _ := push.New(push.Options{Join: sess.JoinPayload(), ...})
//	sess.SetOnline(true)
package session
