// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock abstracts the time operations used by deferred UI work.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once d has elapsed. The returned Timer can cancel
	// or reschedule the call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop prevents the timer from firing. Returns false if it already fired
// or was stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stopFunc == nil {
		return false
	}
	return t.stopFunc()
}

// Reset reschedules the timer to fire d from now. Returns true if the timer
// was still pending.
func (t *Timer) Reset(d time.Duration) bool {
	if t == nil || t.resetFunc == nil {
		return false
	}
	return t.resetFunc(d)
}

// =============================================================================
// REAL CLOCK
// =============================================================================

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stopFunc: timer.Stop, resetFunc: timer.Reset}
}

// =============================================================================
// EVENT LOOP DELIVERY
// =============================================================================

// OnLoop wraps c so that callbacks are passed to post rather than invoked on
// the timer goroutine. post must enqueue f on the UI loop.
//
// A callback that was queued before Stop was called is dropped when it
// reaches the loop, so a stopped timer never runs.
func OnLoop(c Clock, post func(func())) Clock {
	return &loopClock{inner: c, post: post}
}

type loopClock struct {
	inner Clock
	post  func(func())
}

func (l *loopClock) Now() time.Time { return l.inner.Now() }

func (l *loopClock) AfterFunc(d time.Duration, f func()) *Timer {
	var generation atomic.Int64

	schedule := func(gen int64) func() {
		return func() {
			l.post(func() {
				if generation.Load() == gen {
					f()
				}
			})
		}
	}

	var mu sync.Mutex
	inner := l.inner.AfterFunc(d, schedule(0))
	current := func() *Timer {
		mu.Lock()
		defer mu.Unlock()
		return inner
	}

	return &Timer{
		stopFunc: func() bool {
			generation.Add(1)
			return current().Stop()
		},
		resetFunc: func(d time.Duration) bool {
			gen := generation.Add(1)
			wasActive := current().Stop()
			next := l.inner.AfterFunc(d, schedule(gen))
			mu.Lock()
			inner = next
			mu.Unlock()
			return wasActive
		},
	}
}
