// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a deterministic Clock for tests. Time stands still until
// Advance is called; AfterFunc callbacks then run synchronously in the
// calling goroutine, in deadline order. Callbacks scheduled for the same
// deadline run in the order they were scheduled.
//
// Callbacks may schedule, stop, or reset timers. They must not call Advance.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	seq     int
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	seq      int
	callback func()
	stopped  bool
	fired    bool
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run once the clock has advanced by d. If d <= 0
// f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}

	c.mu.Lock()
	waiter := c.addLocked(d, f)
	c.mu.Unlock()

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if waiter.stopped || waiter.fired {
				return false
			}
			waiter.stopped = true
			return true
		},
		resetFunc: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			wasActive := !waiter.stopped && !waiter.fired
			waiter.stopped = true
			waiter = c.addLocked(d, f)
			return wasActive
		},
	}
}

func (c *FakeClock) addLocked(d time.Duration, f func()) *fakeWaiter {
	c.seq++
	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		seq:      c.seq,
		callback: f,
	}
	c.waiters = append(c.waiters, waiter)
	return waiter
}

// Advance moves the clock forward by d and runs every callback whose
// deadline falls within the new time. Callbacks scheduled by other callbacks
// also fire if their deadline has been reached.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		next := c.popNext(target)
		if next == nil {
			break
		}
		next.callback()
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()
}

// popNext removes and returns the earliest waiter due at or before target,
// moving the clock to its deadline.
func (c *FakeClock) popNext(target time.Time) *fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			live = append(live, w)
		}
	}
	c.waiters = live

	sort.SliceStable(c.waiters, func(i, j int) bool {
		if c.waiters[i].deadline.Equal(c.waiters[j].deadline) {
			return c.waiters[i].seq < c.waiters[j].seq
		}
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})

	if len(c.waiters) == 0 || c.waiters[0].deadline.After(target) {
		return nil
	}

	next := c.waiters[0]
	next.fired = true
	c.waiters = c.waiters[1:]
	if next.deadline.After(c.current) {
		c.current = next.deadline
	}
	return next
}

// PendingCount returns the number of timers that have neither fired nor
// been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			count++
		}
	}
	return count
}
