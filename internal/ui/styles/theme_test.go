// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_ForcedModes(t *testing.T) {
	if theme := NewTheme("dark"); !theme.IsDark {
		t.Error("NewTheme(dark) should be dark")
	}
	if theme := NewTheme("LIGHT"); theme.IsDark {
		t.Error("NewTheme(LIGHT) should be light")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme("dark")

	styles := map[string]string{
		"Header":      theme.Header.Render("x"),
		"TableHeader": theme.TableHeader.Render("x"),
		"Row":         theme.Row.Render("x"),
		"RowSelected": theme.RowSelected.Render("x"),
		"RowEntering": theme.RowEntering.Render("x"),
		"RowExiting":  theme.RowExiting.Render("x"),
		"SyncOverlay": theme.SyncOverlay.Render("x"),
		"FormLabel":   theme.FormLabel.Render("x"),
		"StatusBar":   theme.StatusBar.Render("x"),
		"Toast":       theme.ToastStyle(Emerald).Render("x"),
	}
	for name, rendered := range styles {
		if !strings.Contains(rendered, "x") {
			t.Errorf("%s style lost its content: %q", name, rendered)
		}
	}
}

func TestThemeToastHasBorder(t *testing.T) {
	theme := NewTheme("dark")
	rendered := theme.ToastStyle(Rose).Render("Sync error: timeout")
	if lines := strings.Count(rendered, "\n"); lines < 2 {
		t.Errorf("toast should render inside a border, got %d line breaks", lines)
	}
}

// =============================================================================
// LAYOUT MODE TESTS
// =============================================================================

func TestThemeGetLayoutMode(t *testing.T) {
	theme := NewTheme("dark")

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tc := range tests {
		theme.SetSize(tc.width, 24)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("GetLayoutMode() with width %d = %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestThemeZeroSize(t *testing.T) {
	theme := NewTheme("light")
	theme.SetSize(0, 0)
	if theme.GetLayoutMode() != LayoutNarrow {
		t.Error("zero width should be narrow")
	}
}
