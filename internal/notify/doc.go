// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the toast notification queue.
//
// Notifications are kept oldest-first. A notification pushed with a positive
// duration schedules one eviction timer; when any eviction timer fires it
// removes whichever notification is currently the oldest, not necessarily the
// one it was scheduled for. Eviction timers are never cancelled, including
// when the notification they were created for is dismissed by hand.
//
// This mirrors the behavior of the web client this TUI replaces. It is kept
// deliberately; whether a long-lived notification should survive a timer
// that belonged to an already-dismissed one is an open product question.
package notify
