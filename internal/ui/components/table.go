// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/reconcile"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
	"github.com/jeranaias/correspond-tui/internal/util"
)

// =============================================================================
// CORRESPONDENCE TABLE
// =============================================================================

type column struct {
	title string
	width int // Zero means flexible
	value func(r reconcile.Row) string
}

var (
	colReference = column{"Ref", 12, func(r reconcile.Row) string { return r.Entry.ReferenceNumber }}
	colSubject   = column{"Subject", 0, func(r reconcile.Row) string { return util.SingleLine(r.Entry.Subject) }}
	colType      = column{"Type", 9, func(r reconcile.Row) string { return r.Entry.Type.DisplayName() }}
	colStatus    = column{"Status", 10, func(r reconcile.Row) string { return r.Entry.Status }}
	colPriority  = column{"Priority", 8, func(r reconcile.Row) string { return r.Entry.Priority }}
	colDept      = column{"Department", 14, func(r reconcile.Row) string { return r.Entry.Department }}
	colCreated   = column{"Created", 10, func(r reconcile.Row) string {
		if r.Entry.CreatedAt.IsZero() {
			return ""
		}
		return r.Entry.CreatedAt.Local().Format("2006-01-02")
	}}
)

// Table renders the live correspondence list. Selection follows the
// selected record's id, so rows inserted above it do not move the cursor
// to a different record.
type Table struct {
	theme *styles.Theme

	Width  int
	Height int

	selectedID  int64
	selectedIdx int
	offset      int
}

// NewTable creates an empty table.
func NewTable(theme *styles.Theme) *Table {
	return &Table{theme: theme, Width: 80, Height: 20}
}

// SetSize sets the area available to the table, header included.
func (t *Table) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// Sync re-resolves the selection against rows. A selected record that
// disappeared hands the cursor to whatever now occupies its position.
func (t *Table) Sync(rows []reconcile.Row) {
	if len(rows) == 0 {
		t.selectedIdx, t.selectedID, t.offset = 0, 0, 0
		return
	}
	for i, r := range rows {
		if r.Entry.ID == t.selectedID {
			t.selectedIdx = i
			t.scroll()
			return
		}
	}
	if t.selectedIdx >= len(rows) {
		t.selectedIdx = len(rows) - 1
	}
	if t.selectedIdx < 0 {
		t.selectedIdx = 0
	}
	t.selectedID = rows[t.selectedIdx].Entry.ID
	t.scroll()
}

// Move shifts the selection by delta rows.
func (t *Table) Move(rows []reconcile.Row, delta int) {
	t.Sync(rows)
	if len(rows) == 0 {
		return
	}
	t.selectedIdx += delta
	if t.selectedIdx < 0 {
		t.selectedIdx = 0
	}
	if t.selectedIdx >= len(rows) {
		t.selectedIdx = len(rows) - 1
	}
	t.selectedID = rows[t.selectedIdx].Entry.ID
	t.scroll()
}

// Selected returns the selected row.
func (t *Table) Selected(rows []reconcile.Row) (reconcile.Row, bool) {
	t.Sync(rows)
	if len(rows) == 0 {
		return reconcile.Row{}, false
	}
	return rows[t.selectedIdx], true
}

func (t *Table) visibleRows() int {
	n := t.Height - 2 // header and its underline
	if n < 1 {
		n = 1
	}
	return n
}

func (t *Table) scroll() {
	visible := t.visibleRows()
	if t.selectedIdx < t.offset {
		t.offset = t.selectedIdx
	}
	if t.selectedIdx >= t.offset+visible {
		t.offset = t.selectedIdx - visible + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *Table) columns() []column {
	switch styles.LayoutFor(t.Width) {
	case styles.LayoutNarrow:
		return []column{colReference, colSubject, colPriority}
	case styles.LayoutMedium:
		return []column{colReference, colSubject, colType, colStatus, colPriority}
	default:
		return []column{colReference, colSubject, colType, colStatus, colPriority, colDept, colCreated}
	}
}

// layout resolves the flexible column width.
func (t *Table) layout(cols []column) []int {
	widths := make([]int, len(cols))
	fixed := 2 // cursor gutter
	flex := -1
	for i, c := range cols {
		if c.width == 0 {
			flex = i
			continue
		}
		widths[i] = c.width
		fixed += c.width + 1
	}
	if flex >= 0 {
		w := t.Width - fixed - 1
		if w < 10 {
			w = 10
		}
		widths[flex] = w
	}
	return widths
}

// View renders the header and the visible window of rows.
func (t *Table) View(rows []reconcile.Row) string {
	t.Sync(rows)
	cols := t.columns()
	widths := t.layout(cols)

	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = util.PadWidth(c.title, widths[i])
	}
	lines := []string{t.theme.TableHeader.Render("  " + strings.Join(cells, " "))}

	if len(rows) == 0 {
		lines = append(lines, t.theme.EmptyList.Render("No correspondence yet. Press n to register one."))
		return strings.Join(lines, "\n")
	}

	end := t.offset + t.visibleRows()
	if end > len(rows) {
		end = len(rows)
	}
	for i := t.offset; i < end; i++ {
		lines = append(lines, t.renderRow(rows[i], cols, widths, i == t.selectedIdx))
	}
	return strings.Join(lines, "\n")
}

func (t *Table) renderRow(r reconcile.Row, cols []column, widths []int, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	cells := make([]string, len(cols))
	for i, c := range cols {
		text := util.PadWidth(c.value(r), widths[i])
		if r.State == reconcile.RowSteady && !selected {
			switch c.title {
			case "Ref":
				text = t.theme.Reference.Render(text)
			case "Priority":
				text = lipgloss.NewStyle().Foreground(styles.PriorityColor(r.Entry.Priority)).Render(text)
			}
		}
		cells[i] = text
	}
	line := cursor + strings.Join(cells, " ")

	switch {
	case r.State == reconcile.RowExiting:
		return t.theme.RowExiting.Render(line)
	case selected:
		return t.theme.RowSelected.Render(line)
	case r.State == reconcile.RowEntering:
		return t.theme.RowEntering.Render(line)
	default:
		return t.theme.Row.Render(line)
	}
}

// RenderSyncOverlay renders the banner shown while a sync is in progress.
func RenderSyncOverlay(theme *styles.Theme, frame int, width int) string {
	spinner := styles.SyncSpinner[frame%len(styles.SyncSpinner)]
	box := theme.SyncOverlay.Render(spinner + " Synchronizing with server...")
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
