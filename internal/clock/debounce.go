// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into a single call made once the
// quiescence window has passed without a new trigger.
type Debouncer struct {
	clock  Clock
	window time.Duration

	mu      sync.Mutex
	timer   *Timer
	pending func()
}

// NewDebouncer returns a Debouncer with the given quiescence window.
func NewDebouncer(c Clock, window time.Duration) *Debouncer {
	return &Debouncer{clock: c, window: window}
}

// Window returns the quiescence window.
func (d *Debouncer) Window() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.window
}

// SetWindow changes the window used by subsequent triggers.
func (d *Debouncer) SetWindow(window time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.window = window
}

// Trigger cancels any pending call and schedules f after the window.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = f
	window := d.window
	d.mu.Unlock()

	timer := d.clock.AfterFunc(window, d.fire)

	d.mu.Lock()
	d.timer = timer
	d.mu.Unlock()
}

// Flush runs the pending call now, if there is one.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// Cancel drops the pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	f := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if f != nil {
		f()
	}
}
