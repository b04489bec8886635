// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/session"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: connection state, sync state, session and
// key hints.
type StatusBar struct {
	Width       int
	ShowSession bool
	Shortcuts   []Shortcut
	theme       *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:       80,
		ShowSession: true,
		theme:       theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders st.
func (s *StatusBar) View(st session.Status) string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	left := []string{s.renderConnection(st)}
	if st.SyncInProgress {
		left = append(left, s.theme.Syncing.Render(styles.StatusIndicators.Pending+" syncing"))
	}

	layout := styles.LayoutFor(s.Width)
	if layout != styles.LayoutNarrow {
		left = append(left, s.theme.Muted.Render(st.UserID+"@"+st.Room))
	}
	if layout == styles.LayoutWide {
		left = append(left, s.theme.Muted.Render(st.Transport))
		if st.SinceLastEvent > 0 {
			left = append(left, s.theme.Muted.Render("last event "+session.FormatDuration(st.SinceLastEvent)+" ago"))
		}
		if s.ShowSession {
			id := st.SessionID
			if len(id) > 8 {
				id = id[:8]
			}
			left = append(left, s.theme.Muted.Render("session "+id))
		}
	}

	leftText := strings.Join(left, separator)
	right := s.renderShortcuts()

	inner := s.Width - 2
	gap := inner - lipgloss.Width(leftText) - lipgloss.Width(right)
	line := leftText
	if gap >= 1 {
		line += strings.Repeat(" ", gap) + right
	}

	return s.theme.StatusBar.
		Width(s.Width).
		MaxHeight(1).
		Render(line)
}

func (s *StatusBar) renderConnection(st session.Status) string {
	if st.Online {
		return s.theme.Online.Render(styles.StatusIndicators.Active + " online")
	}
	text := styles.StatusIndicators.Error + " offline"
	if st.Disconnects > 0 {
		text += " (" + strconv.Itoa(st.Disconnects) + " drops)"
	}
	return s.theme.Offline.Render(text)
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	if len(s.Shortcuts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
