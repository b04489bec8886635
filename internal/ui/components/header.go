// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/ui/styles"
	"github.com/jeranaias/correspond-tui/internal/util"
)

// Header is the single-line title bar.
type Header struct {
	Title    string
	Subtitle string // Current view, e.g. "Recent correspondence"
	Server   string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the application title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "correspond",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header. The server address is dropped first when space
// runs out.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" {
		title += lipgloss.NewStyle().Foreground(styles.TextSecondary).Render("  " + h.Subtitle)
	}

	server := ""
	if h.Server != "" && styles.LayoutFor(h.Width) != styles.LayoutNarrow {
		server = h.theme.HeaderHint.Render(util.TruncateWidth(h.Server, h.Width/3))
	}

	inner := h.Width - 2
	line := title
	if server != "" {
		if gap := inner - lipgloss.Width(title) - lipgloss.Width(server); gap >= 1 {
			line += lipgloss.NewStyle().Width(gap).Render("") + server
		}
	}

	return h.theme.Header.
		Width(h.Width).
		MaxHeight(1).
		Render(line)
}
