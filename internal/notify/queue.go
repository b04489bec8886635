// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"time"

	"github.com/jeranaias/correspond-tui/internal/clock"
	"github.com/jeranaias/correspond-tui/internal/model"
)

// DefaultDuration is the auto-dismiss delay used by Notify.
const DefaultDuration = 5 * time.Second

// DefaultCapacity is the maximum number of notifications kept at once.
const DefaultCapacity = 5

// =============================================================================
// NOTIFICATION
// =============================================================================

// Notification is one transient, non-persisted message.
type Notification struct {
	ID        int
	Message   string
	Severity  model.Severity
	Duration  time.Duration // Zero means no auto-dismiss timer
	CreatedAt time.Time
}

// Notifier accepts notifications. Queue implements it; reconcile and the UI
// depend only on this.
type Notifier interface {
	Push(message string, severity model.Severity, duration time.Duration) int
}

// =============================================================================
// QUEUE
// =============================================================================

// Queue is a FIFO of notifications with timer-driven eviction of the head.
type Queue struct {
	clock clock.Clock

	mu        sync.Mutex
	items     []Notification
	nextID    int
	capacity  int
	durations map[model.Severity]time.Duration
	onChange  func()
}

// NewQueue creates an empty queue using c for eviction timers.
func NewQueue(c clock.Clock) *Queue {
	return &Queue{
		clock:    c,
		nextID:   1,
		capacity: DefaultCapacity,
	}
}

// SetCapacity sets the maximum queue length. Zero or negative means
// unbounded.
func (q *Queue) SetCapacity(n int) {
	q.mu.Lock()
	q.capacity = n
	evicted := q.trimLocked()
	q.mu.Unlock()
	if evicted {
		q.changed()
	}
}

// SetDurations sets per-severity durations used by Notify. Severities not in
// the map use DefaultDuration.
func (q *Queue) SetDurations(durations map[model.Severity]time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.durations = durations
}

// OnChange registers f to be called after every change to the queue.
func (q *Queue) OnChange(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onChange = f
}

// Push appends a notification. If duration is positive an eviction timer is
// scheduled that removes the oldest notification present when it fires.
func (q *Queue) Push(message string, severity model.Severity, duration time.Duration) int {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.items = append(q.items, Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		Duration:  duration,
		CreatedAt: q.clock.Now(),
	})
	q.trimLocked()
	q.mu.Unlock()

	if duration > 0 {
		q.clock.AfterFunc(duration, q.evictOldest)
	}

	q.changed()
	return id
}

// Notify pushes with the configured duration for severity.
func (q *Queue) Notify(message string, severity model.Severity) int {
	return q.Push(message, severity, q.durationFor(severity))
}

func (q *Queue) durationFor(severity model.Severity) time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if d, ok := q.durations[severity]; ok {
		return d
	}
	return DefaultDuration
}

// Dismiss removes the notification with the given ID wherever it sits in the
// queue. Returns false if it is no longer present.
func (q *Queue) Dismiss(id int) bool {
	q.mu.Lock()
	found := false
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			found = true
			break
		}
	}
	q.mu.Unlock()

	if found {
		q.changed()
	}
	return found
}

// DismissNewest removes the most recently pushed notification.
func (q *Queue) DismissNewest() bool {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return false
	}
	q.items = q.items[:len(q.items)-1]
	q.mu.Unlock()

	q.changed()
	return true
}

// Items returns a copy of the queue, oldest first.
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear removes every notification. Pending eviction timers still fire and
// find nothing to remove.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
	q.changed()
}

// evictOldest is the body of every eviction timer.
func (q *Queue) evictOldest() {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.items = q.items[1:]
	q.mu.Unlock()

	q.changed()
}

// trimLocked drops the oldest entries beyond capacity. Caller holds q.mu.
func (q *Queue) trimLocked() bool {
	if q.capacity <= 0 || len(q.items) <= q.capacity {
		return false
	}
	q.items = q.items[len(q.items)-q.capacity:]
	return true
}

func (q *Queue) changed() {
	q.mu.Lock()
	f := q.onChange
	q.mu.Unlock()
	if f != nil {
		f()
	}
}
