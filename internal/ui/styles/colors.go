// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/model"
)

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Purple - Selection, focused form field
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, headers, info
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success, connected, newly added rows
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, offline, urgent priority
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, high priority, deleted rows
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Blue - Info toasts
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// SurfaceDim - Header and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// SelectionBg - Highlighted row
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, rows on their way out
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states so meaning
// never depends on color alone.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
	Active  string
}

// StatusIndicators are ASCII-only for maximum compatibility.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
	Active:  "[*]",
}

// SeverityColor returns the accent color for a notification severity.
func SeverityColor(s model.Severity) lipgloss.AdaptiveColor {
	switch s {
	case model.SeveritySuccess:
		return Emerald
	case model.SeverityWarning:
		return Amber
	case model.SeverityError:
		return Rose
	default:
		return Blue
	}
}

// SeverityIndicator returns the shape indicator for a severity.
func SeverityIndicator(s model.Severity) string {
	switch s {
	case model.SeveritySuccess:
		return StatusIndicators.Success
	case model.SeverityWarning:
		return StatusIndicators.Warning
	case model.SeverityError:
		return StatusIndicators.Error
	default:
		return StatusIndicators.Info
	}
}

// PriorityColor returns the color used for a priority badge.
func PriorityColor(priority string) lipgloss.AdaptiveColor {
	switch priority {
	case "urgent":
		return Rose
	case "high":
		return Amber
	case "low":
		return TextMuted
	default:
		return TextSecondary
	}
}
