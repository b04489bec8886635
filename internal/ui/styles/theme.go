// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderHint  lipgloss.Style

	// ==========================================================================
	// LIST
	// ==========================================================================

	TableHeader  lipgloss.Style
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
	RowEntering  lipgloss.Style
	RowExiting   lipgloss.Style
	Reference    lipgloss.Style
	EmptyList    lipgloss.Style
	SyncOverlay  lipgloss.Style
	DirectionIn  lipgloss.Style
	DirectionOut lipgloss.Style

	// ==========================================================================
	// FORM
	// ==========================================================================

	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	FormLabelFocus lipgloss.Style
	FormHint       lipgloss.Style

	// ==========================================================================
	// TOASTS
	// ==========================================================================

	Toast lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	Online       lipgloss.Style
	Offline      lipgloss.Style
	Syncing      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme for mode ("dark", "light" or "auto").
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// List
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.Row = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RowSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.RowEntering = lipgloss.NewStyle().
		Foreground(Emerald)

	t.RowExiting = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true).
		Strikethrough(true)

	t.Reference = lipgloss.NewStyle().
		Foreground(Cyan)

	t.EmptyList = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	t.SyncOverlay = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 2)

	t.DirectionIn = lipgloss.NewStyle().
		Foreground(Blue)

	t.DirectionOut = lipgloss.NewStyle().
		Foreground(Purple)

	// Form
	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginBottom(1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(16)

	t.FormLabelFocus = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		Width(16)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Toasts
	t.Toast = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.Online = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Offline = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Syncing = lipgloss.NewStyle().
		Foreground(Amber)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// ToastStyle returns the toast box style for a severity color.
func (t *Theme) ToastStyle(color lipgloss.AdaptiveColor) lipgloss.Style {
	return t.Toast.BorderForeground(color).Foreground(color)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	return LayoutFor(t.Width)
}

// LayoutFor returns the layout mode for a given width.
func LayoutFor(width int) LayoutMode {
	if width < 60 {
		return LayoutNarrow
	}
	if width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// =============================================================================
// SPINNER
// =============================================================================

// SyncSpinner frames shown while a server sync is in progress.
var SyncSpinner = []string{"|", "/", "-", "\\"}
