// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"fmt"
	"log"
	"time"

	"github.com/jeranaias/correspond-tui/internal/clock"
	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/notify"
)

// DefaultExitDelay is how long a deleted row stays visible while it exits.
const DefaultExitDelay = 300 * time.Millisecond

// =============================================================================
// ROW
// =============================================================================

// RowState is the transition hint used when rendering a row.
type RowState int

const (
	// RowEntering marks a row inserted or replaced by a push event.
	RowEntering RowState = iota
	// RowSteady marks a row loaded from the server listing.
	RowSteady
	// RowExiting marks a deleted row waiting for its exit delay.
	RowExiting
)

// String returns the state name.
func (s RowState) String() string {
	switch s {
	case RowEntering:
		return "entering"
	case RowExiting:
		return "exiting"
	default:
		return "steady"
	}
}

// Row is one rendered list entry.
type Row struct {
	Entry     model.Entry
	State     RowState
	UpdatedAt time.Time
}

// =============================================================================
// LIST
// =============================================================================

// Options configures a List.
type Options struct {
	// ExitDelay is the delay between a delete event and row removal.
	ExitDelay time.Duration

	// NotifyDuration is the auto-dismiss delay for event notifications.
	NotifyDuration time.Duration
}

// List is the in-memory correspondence list, most recent first.
type List struct {
	clock    clock.Clock
	notifier notify.Notifier
	opts     Options

	rows     []*Row
	index    map[int64]*Row
	syncing  bool
	onChange func()
}

// NewList creates an empty list. notifier may be nil.
func NewList(c clock.Clock, notifier notify.Notifier, opts Options) *List {
	if opts.ExitDelay <= 0 {
		opts.ExitDelay = DefaultExitDelay
	}
	if opts.NotifyDuration == 0 {
		opts.NotifyDuration = notify.DefaultDuration
	}
	return &List{
		clock:    c,
		notifier: notifier,
		opts:     opts,
		index:    make(map[int64]*Row),
	}
}

// OnChange registers f to be called after every structural change.
func (l *List) OnChange(f func()) { l.onChange = f }

// SetOptions replaces the timing options for later events.
func (l *List) SetOptions(opts Options) {
	if opts.ExitDelay > 0 {
		l.opts.ExitDelay = opts.ExitDelay
	}
	if opts.NotifyDuration != 0 {
		l.opts.NotifyDuration = opts.NotifyDuration
	}
}

// =============================================================================
// ENTITY EVENTS
// =============================================================================

// OnEntityEvent applies one entity event. Unknown kinds are ignored.
func (l *List) OnEntityEvent(kind model.EventKind, entry model.Entry) {
	switch kind {
	case model.EventAdded:
		l.EntityAdded(entry)
	case model.EventUpdated:
		l.EntityUpdated(entry)
	case model.EventDeleted:
		l.EntityDeleted(entry)
	default:
		log.Printf("RECONCILE_UNKNOWN_EVENT | kind=%s id=%d", kind, entry.ID)
	}
}

// EntityAdded inserts entry at the head, or replaces the existing row with
// the same id in place.
func (l *List) EntityAdded(entry model.Entry) {
	entry = entry.Normalize()
	if row, ok := l.index[entry.ID]; ok {
		l.replace(row, entry)
	} else {
		l.insertHead(entry)
	}
	l.changed()
	l.notify(fmt.Sprintf("New correspondence added: %s", entry.Subject), model.SeveritySuccess)
}

// EntityUpdated replaces the row content in place, or inserts the row at the
// head when the id is not known yet.
func (l *List) EntityUpdated(entry model.Entry) {
	entry = entry.Normalize()
	if row, ok := l.index[entry.ID]; ok {
		l.replace(row, entry)
	} else {
		l.insertHead(entry)
	}
	l.changed()
	l.notify(fmt.Sprintf("Correspondence updated: %s", entry.Subject), model.SeverityInfo)
}

// EntityDeleted marks the row exiting and removes it after the exit delay.
// Unknown ids and rows already exiting are left alone.
func (l *List) EntityDeleted(entry model.Entry) {
	if row, ok := l.index[entry.ID]; ok && row.State != RowExiting {
		row.State = RowExiting
		row.UpdatedAt = l.clock.Now()
		l.clock.AfterFunc(l.opts.ExitDelay, func() { l.finishRemoval(row) })
		l.changed()
	}
	l.notify("Correspondence deleted", model.SeverityWarning)
}

func (l *List) insertHead(entry model.Entry) {
	row := &Row{Entry: entry, State: RowEntering, UpdatedAt: l.clock.Now()}
	l.rows = append([]*Row{row}, l.rows...)
	l.index[entry.ID] = row
}

// replace swaps the row content; a row that was exiting is revived.
func (l *List) replace(row *Row, entry model.Entry) {
	row.Entry = entry
	row.State = RowEntering
	row.UpdatedAt = l.clock.Now()
}

// finishRemoval removes row if it is still the exiting row for its id.
func (l *List) finishRemoval(row *Row) {
	current, ok := l.index[row.Entry.ID]
	if !ok || current != row || row.State != RowExiting {
		return
	}
	delete(l.index, row.Entry.ID)
	for i, r := range l.rows {
		if r == row {
			l.rows = append(l.rows[:i], l.rows[i+1:]...)
			break
		}
	}
	l.changed()
}

// =============================================================================
// SYNC EVENTS
// =============================================================================

// SyncStarted shows the sync indicator.
func (l *List) SyncStarted() {
	l.syncing = true
	l.changed()
}

// SyncCompleted hides the sync indicator.
func (l *List) SyncCompleted() {
	l.syncing = false
	l.changed()
	l.notify("Data synchronized successfully", model.SeveritySuccess)
}

// SyncFailed hides the sync indicator and reports the server message.
func (l *List) SyncFailed(message string) {
	l.syncing = false
	l.changed()
	if message == "" {
		l.notify("Sync error", model.SeverityError)
		return
	}
	l.notify(fmt.Sprintf("Sync error: %s", message), model.SeverityError)
}

// Syncing reports whether a server sync is in progress.
func (l *List) Syncing() bool { return l.syncing }

// =============================================================================
// LISTING
// =============================================================================

// Load replaces the list with a server listing given newest first. Duplicate
// ids keep their first occurrence.
func (l *List) Load(entries []model.Entry) {
	now := l.clock.Now()
	l.rows = make([]*Row, 0, len(entries))
	l.index = make(map[int64]*Row, len(entries))
	for _, e := range entries {
		if _, dup := l.index[e.ID]; dup {
			continue
		}
		row := &Row{Entry: e.Normalize(), State: RowSteady, UpdatedAt: now}
		l.rows = append(l.rows, row)
		l.index[e.ID] = row
	}
	l.changed()
}

// Rows returns a snapshot of the rows, most recent first.
func (l *List) Rows() []Row {
	out := make([]Row, len(l.rows))
	for i, r := range l.rows {
		out[i] = *r
	}
	return out
}

// IDs returns the row ids in display order.
func (l *List) IDs() []int64 {
	out := make([]int64, len(l.rows))
	for i, r := range l.rows {
		out[i] = r.Entry.ID
	}
	return out
}

// Get returns the row for id.
func (l *List) Get(id int64) (Row, bool) {
	row, ok := l.index[id]
	if !ok {
		return Row{}, false
	}
	return *row, true
}

// Len returns the number of rows, exiting rows included.
func (l *List) Len() int { return len(l.rows) }

// Settle marks entering rows steady once their transition has been shown.
func (l *List) Settle() {
	settled := false
	for _, r := range l.rows {
		if r.State == RowEntering {
			r.State = RowSteady
			settled = true
		}
	}
	if settled {
		l.changed()
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (l *List) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// notify is best effort: a failing notifier never undoes or blocks the list
// update that preceded it.
func (l *List) notify(message string, severity model.Severity) {
	if l.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("NOTIFY_ERROR | message=%q panic=%v", message, r)
		}
	}()
	l.notifier.Push(message, severity, l.opts.NotifyDuration)
}
