// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/correspond-tui/internal/clock"
	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/notify"
)

type recordedNotice struct {
	message  string
	severity model.Severity
}

type recordingNotifier struct {
	notices []recordedNotice
}

func (r *recordingNotifier) Push(message string, severity model.Severity, _ time.Duration) int {
	r.notices = append(r.notices, recordedNotice{message, severity})
	return len(r.notices)
}

type panickingNotifier struct{}

func (panickingNotifier) Push(string, model.Severity, time.Duration) int {
	panic("notifier unavailable")
}

func newTestList() (*List, *clock.FakeClock, *recordingNotifier) {
	c := clock.Fake(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	n := &recordingNotifier{}
	return NewList(c, n, Options{}), c, n
}

func entry(id int64, subject string) model.Entry {
	return model.Entry{ID: id, Subject: subject, Type: model.DirectionIncoming}
}

func TestList_AddedInsertsAtHead(t *testing.T) {
	l, _, n := newTestList()

	l.EntityAdded(entry(1, "first"))
	l.EntityAdded(entry(2, "second"))

	assert.Equal(t, []int64{2, 1}, l.IDs())
	row, ok := l.Get(2)
	require.True(t, ok)
	assert.Equal(t, RowEntering, row.State)
	assert.Equal(t, model.StatusPending, row.Entry.Status)
	assert.Equal(t, "normal", row.Entry.Priority)

	require.Len(t, n.notices, 2)
	assert.Equal(t, "New correspondence added: second", n.notices[1].message)
	assert.Equal(t, model.SeveritySuccess, n.notices[1].severity)
}

func TestList_AddedForKnownIDReplacesInPlace(t *testing.T) {
	l, _, _ := newTestList()
	l.Load([]model.Entry{entry(3, "c"), entry(2, "b"), entry(1, "a")})

	l.EntityAdded(entry(2, "b2"))

	assert.Equal(t, []int64{3, 2, 1}, l.IDs())
	row, _ := l.Get(2)
	assert.Equal(t, "b2", row.Entry.Subject)
	assert.Equal(t, 3, l.Len())
}

func TestList_UpdatedKeepsPosition(t *testing.T) {
	l, _, n := newTestList()
	l.Load([]model.Entry{entry(3, "c"), entry(2, "b"), entry(1, "a")})

	l.EntityUpdated(model.Entry{ID: 1, Subject: "a2", Type: model.DirectionOutgoing, Status: model.StatusArchived})

	assert.Equal(t, []int64{3, 2, 1}, l.IDs())
	row, _ := l.Get(1)
	assert.Equal(t, "a2", row.Entry.Subject)
	assert.Equal(t, model.StatusArchived, row.Entry.Status)
	assert.Equal(t, RowEntering, row.State)
	require.Len(t, n.notices, 1)
	assert.Equal(t, "Correspondence updated: a2", n.notices[0].message)
	assert.Equal(t, model.SeverityInfo, n.notices[0].severity)
}

func TestList_UpdatedForUnknownIDInserts(t *testing.T) {
	l, _, _ := newTestList()
	l.Load([]model.Entry{entry(1, "a")})

	l.EntityUpdated(entry(9, "late"))

	assert.Equal(t, []int64{9, 1}, l.IDs())
}

func TestList_DeletedRemovesAfterExitDelay(t *testing.T) {
	l, c, n := newTestList()
	l.Load([]model.Entry{entry(2, "b"), entry(1, "a")})

	l.EntityDeleted(model.Entry{ID: 2})

	row, ok := l.Get(2)
	require.True(t, ok, "row stays visible while exiting")
	assert.Equal(t, RowExiting, row.State)

	c.Advance(DefaultExitDelay - time.Millisecond)
	assert.Equal(t, 2, l.Len())

	c.Advance(time.Millisecond)
	assert.Equal(t, []int64{1}, l.IDs())
	_, ok = l.Get(2)
	assert.False(t, ok)

	require.Len(t, n.notices, 1)
	assert.Equal(t, model.SeverityWarning, n.notices[0].severity)
}

func TestList_DeletedUnknownIDIsNoop(t *testing.T) {
	l, c, n := newTestList()
	l.Load([]model.Entry{entry(1, "a")})

	l.EntityDeleted(model.Entry{ID: 42})
	c.Advance(time.Second)

	assert.Equal(t, []int64{1}, l.IDs())
	assert.Len(t, n.notices, 1)
	assert.Equal(t, 0, c.PendingCount())
}

func TestList_SecondDeleteSchedulesNothing(t *testing.T) {
	l, c, n := newTestList()
	l.Load([]model.Entry{entry(1, "a")})

	l.EntityDeleted(model.Entry{ID: 1})
	l.EntityDeleted(model.Entry{ID: 1})

	assert.Equal(t, 1, c.PendingCount())
	c.Advance(DefaultExitDelay)
	assert.Equal(t, 0, l.Len())
	assert.Len(t, n.notices, 2)
}

func TestList_AddDuringExitRevivesRow(t *testing.T) {
	l, c, _ := newTestList()
	l.Load([]model.Entry{entry(1, "a")})

	l.EntityDeleted(model.Entry{ID: 1})
	c.Advance(100 * time.Millisecond)
	l.EntityAdded(entry(1, "a again"))
	c.Advance(DefaultExitDelay)

	row, ok := l.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a again", row.Entry.Subject)
	assert.Equal(t, RowEntering, row.State)
	assert.Equal(t, 1, l.Len())
}

func TestList_DeleteThenReAddAfterRemoval(t *testing.T) {
	l, c, _ := newTestList()
	l.Load([]model.Entry{entry(2, "b"), entry(1, "a")})

	l.EntityDeleted(model.Entry{ID: 1})
	c.Advance(DefaultExitDelay)
	l.EntityAdded(entry(1, "a2"))

	assert.Equal(t, []int64{1, 2}, l.IDs())
}

func TestList_IDsStayUnique(t *testing.T) {
	l, c, _ := newTestList()

	l.EntityAdded(entry(1, "a"))
	l.EntityUpdated(entry(1, "b"))
	l.EntityAdded(entry(1, "c"))
	l.EntityDeleted(model.Entry{ID: 1})
	l.EntityUpdated(entry(1, "d"))
	c.Advance(time.Second)

	assert.Equal(t, []int64{1}, l.IDs())
}

func TestList_LoadDropsDuplicates(t *testing.T) {
	l, _, n := newTestList()

	l.Load([]model.Entry{entry(2, "b"), entry(1, "a"), entry(2, "dup")})

	assert.Equal(t, []int64{2, 1}, l.IDs())
	row, _ := l.Get(2)
	assert.Equal(t, "b", row.Entry.Subject)
	assert.Equal(t, RowSteady, row.State)
	assert.Empty(t, n.notices)
}

func TestList_OnEntityEventDispatches(t *testing.T) {
	l, c, _ := newTestList()

	l.OnEntityEvent(model.EventAdded, entry(1, "a"))
	l.OnEntityEvent(model.EventUpdated, entry(1, "b"))
	l.OnEntityEvent(model.EventKind("renamed"), entry(1, "c"))
	row, _ := l.Get(1)
	assert.Equal(t, "b", row.Entry.Subject)

	l.OnEntityEvent(model.EventDeleted, entry(1, ""))
	c.Advance(DefaultExitDelay)
	assert.Equal(t, 0, l.Len())
}

func TestList_Settle(t *testing.T) {
	l, _, _ := newTestList()
	l.EntityAdded(entry(1, "a"))

	l.Settle()

	row, _ := l.Get(1)
	assert.Equal(t, RowSteady, row.State)
}

func TestList_SyncFlags(t *testing.T) {
	l, _, n := newTestList()

	l.SyncStarted()
	assert.True(t, l.Syncing())

	l.SyncCompleted()
	assert.False(t, l.Syncing())

	l.SyncStarted()
	l.SyncFailed("timeout")
	assert.False(t, l.Syncing())

	require.Len(t, n.notices, 2)
	assert.Equal(t, "Data synchronized successfully", n.notices[0].message)
	assert.Equal(t, "Sync error: timeout", n.notices[1].message)
	assert.Equal(t, model.SeverityError, n.notices[1].severity)

	l.SyncStarted()
	l.SyncFailed("")
	assert.False(t, l.Syncing())
	require.Len(t, n.notices, 3)
	assert.Equal(t, "Sync error", n.notices[2].message)
}

func TestList_NotifierFailureDoesNotUndoUpdate(t *testing.T) {
	c := clock.Fake(time.Now())
	l := NewList(c, panickingNotifier{}, Options{})

	assert.NotPanics(t, func() { l.EntityAdded(entry(1, "a")) })
	assert.Equal(t, []int64{1}, l.IDs())
}

func TestList_NilNotifier(t *testing.T) {
	l := NewList(clock.Fake(time.Now()), nil, Options{})
	l.EntityAdded(entry(1, "a"))
	assert.Equal(t, 1, l.Len())
}

func TestList_WithQueueNotifier(t *testing.T) {
	c := clock.Fake(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	q := notify.NewQueue(c)
	l := NewList(c, q, Options{ExitDelay: 50 * time.Millisecond, NotifyDuration: time.Second})

	l.EntityAdded(entry(1, "a"))
	l.EntityDeleted(model.Entry{ID: 1})
	assert.Equal(t, 2, q.Len())

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 0, l.Len())

	c.Advance(time.Second)
	assert.Equal(t, 0, q.Len())
}

func TestList_OnChangeCalled(t *testing.T) {
	l, c, _ := newTestList()
	calls := 0
	l.OnChange(func() { calls++ })

	l.EntityAdded(entry(1, "a"))
	l.EntityDeleted(model.Entry{ID: 1})
	c.Advance(DefaultExitDelay)

	assert.Equal(t, 3, calls)
}

func TestRowState_String(t *testing.T) {
	assert.Equal(t, "entering", RowEntering.String())
	assert.Equal(t, "steady", RowSteady.String())
	assert.Equal(t, "exiting", RowExiting.String())
}
