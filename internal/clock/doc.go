// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock provides schedulable timers for the correspond TUI.
//
// All deferred work in the client (autosave debounce, toast eviction, row
// exit transitions, delayed reloads) goes through a Clock so that tests can
// drive time deterministically with Fake.
//
// # Key Types
//
//   - Clock: Now and AfterFunc
//   - Timer: cancel and reschedule a pending callback
//   - FakeClock: deterministic clock advanced by tests
//   - Debouncer: cancel-and-reschedule coalescing of rapid triggers
//
// # Event Loop Delivery
//
// The UI mutates its state from a single goroutine. OnLoop wraps a clock so
// every callback is handed to a post function instead of running on the
// timer goroutine:
//
//	c := clock.OnLoop(clock.Real(), func(f func()) {
//	    program.Send(callbackMsg(f))
//	})
package clock
