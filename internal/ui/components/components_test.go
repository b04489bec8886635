// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/notify"
	"github.com/jeranaias/correspond-tui/internal/reconcile"
	"github.com/jeranaias/correspond-tui/internal/session"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

func rows(ids ...int64) []reconcile.Row {
	out := make([]reconcile.Row, 0, len(ids))
	for _, id := range ids {
		out = append(out, reconcile.Row{
			Entry: model.Entry{
				ID:              id,
				ReferenceNumber: "IN-2025-" + strings.Repeat("0", 3) + string(rune('0'+id%10)),
				Subject:         "Subject " + string(rune('A'+id%26)),
				Type:            model.DirectionIncoming,
				Status:          model.StatusPending,
				Priority:        "normal",
			},
			State: reconcile.RowSteady,
		})
	}
	return out
}

// =============================================================================
// TABLE
// =============================================================================

func TestTable_SelectionFollowsID(t *testing.T) {
	table := NewTable(testTheme())
	list := rows(3, 2, 1)

	table.Move(list, 1)
	sel, ok := table.Selected(list)
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.Entry.ID)

	// A new row at the head must not move the cursor to another record.
	list = append(rows(4), list...)
	sel, _ = table.Selected(list)
	assert.Equal(t, int64(2), sel.Entry.ID)
}

func TestTable_SelectionSurvivesRemoval(t *testing.T) {
	table := NewTable(testTheme())
	list := rows(3, 2, 1)
	table.Move(list, 2)

	list = list[:2]
	sel, ok := table.Selected(list)
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.Entry.ID, "cursor clamps to the last row")

	_, ok = table.Selected(nil)
	assert.False(t, ok)
}

func TestTable_MoveClamps(t *testing.T) {
	table := NewTable(testTheme())
	list := rows(3, 2, 1)

	table.Move(list, -5)
	sel, _ := table.Selected(list)
	assert.Equal(t, int64(3), sel.Entry.ID)

	table.Move(list, 10)
	sel, _ = table.Selected(list)
	assert.Equal(t, int64(1), sel.Entry.ID)
}

func TestTable_ViewWindow(t *testing.T) {
	table := NewTable(testTheme())
	table.SetSize(120, 4) // header + 2 rows

	list := rows(5, 4, 3, 2, 1)
	table.Move(list, 4)
	view := table.View(list)

	assert.Contains(t, view, "Subject B") // id 1
	assert.NotContains(t, view, "Subject F", "id 5 scrolled out")
	assert.Contains(t, view, "Department")
}

func TestTable_NarrowDropsColumns(t *testing.T) {
	table := NewTable(testTheme())
	table.SetSize(50, 10)
	view := table.View(rows(1))
	assert.NotContains(t, view, "Department")
	assert.NotContains(t, view, "Status")
	assert.Contains(t, view, "Priority")
}

func TestTable_Empty(t *testing.T) {
	table := NewTable(testTheme())
	assert.Contains(t, table.View(nil), "No correspondence yet")
}

func TestTable_ExitingRowStillRendered(t *testing.T) {
	table := NewTable(testTheme())
	table.SetSize(120, 10)
	list := rows(2, 1)
	list[1].State = reconcile.RowExiting

	assert.Contains(t, table.View(list), "Subject B")
}

// =============================================================================
// TOASTS
// =============================================================================

func TestRenderToast(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	n := notify.Notification{
		ID:        1,
		Message:   "Correspondence deleted",
		Severity:  model.SeverityWarning,
		Duration:  5 * time.Second,
		CreatedAt: now.Add(-2 * time.Second),
	}

	out := RenderToast(testTheme(), n, now, 100)
	assert.Contains(t, out, "[!]")
	assert.Contains(t, out, "Correspondence deleted")
	assert.Contains(t, out, "3s")
}

func TestRenderToastStack_Order(t *testing.T) {
	now := time.Now()
	items := []notify.Notification{
		{ID: 1, Message: "first", CreatedAt: now},
		{ID: 2, Message: "second", CreatedAt: now},
	}

	out := RenderToastStack(testTheme(), items, now, 0, 0)
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
	assert.Empty(t, RenderToastStack(testTheme(), nil, now, 80, 24))
}

func TestRenderToastStack_Placed(t *testing.T) {
	now := time.Now()
	out := RenderToastStack(testTheme(), []notify.Notification{{ID: 1, Message: "hi", CreatedAt: now}}, now, 80, 20)
	assert.Equal(t, 20, lipgloss.Height(out))
}

func TestWrapToastText(t *testing.T) {
	assert.Equal(t, "short", wrapToastText("short", 20))
	assert.Equal(t, "aaa bbb\nccc", wrapToastText("aaa bbb ccc", 7))
	assert.Equal(t, "x", wrapToastText("x", 0))
}

// =============================================================================
// STATUS BAR AND HEADER
// =============================================================================

func TestStatusBar_View(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(140)
	bar.Shortcuts = []Shortcut{{Key: "n", Desc: "new"}}

	online := bar.View(session.Status{
		SessionID:      "0123456789abcdef",
		UserID:         "alice",
		Room:           "all_users",
		Transport:      "websocket",
		Online:         true,
		SyncInProgress: true,
		SinceLastEvent: 3 * time.Second,
	})
	assert.Contains(t, online, "online")
	assert.Contains(t, online, "syncing")
	assert.Contains(t, online, "alice@all_users")
	assert.Contains(t, online, "last event 3s ago")
	assert.Contains(t, online, "session 01234567")
	assert.Contains(t, online, "new")

	offline := bar.View(session.Status{Disconnects: 2})
	assert.Contains(t, offline, "offline (2 drops)")
}

func TestStatusBar_NarrowHidesDetails(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(50)
	out := bar.View(session.Status{UserID: "alice", Room: "r", Online: true})
	assert.NotContains(t, out, "alice@r")
}

func TestHeader_View(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(100)
	h.Subtitle = "Recent correspondence"
	h.Server = "http://127.0.0.1:5000"

	out := h.View()
	assert.Contains(t, out, "correspond")
	assert.Contains(t, out, "Recent correspondence")
	assert.Contains(t, out, "127.0.0.1:5000")
	assert.Equal(t, 1, lipgloss.Height(out))
}
