// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file renders the notification queue as non-blocking toasts in the
// bottom-right corner. The queue owns lifetime and eviction; rendering only
// reads a snapshot.

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/notify"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
	"github.com/jeranaias/correspond-tui/internal/util"
)

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single notification.
func RenderToast(theme *styles.Theme, n notify.Notification, now time.Time, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	color := styles.SeverityColor(n.Severity)
	iconStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true)
	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	message := wrapToastText(util.SingleLine(n.Message), maxWidth-10)
	content := iconStyle.Render(styles.SeverityIndicator(n.Severity)+" ") + messageStyle.Render(message)

	hints := []string{"[x] Dismiss"}
	if remaining := timeRemaining(n, now); remaining > 0 {
		if secs := int(remaining.Seconds()); secs > 0 {
			hints = append(hints, strconv.Itoa(secs)+"s")
		}
	}
	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	content += "\n" + hintStyle.Render(strings.Join(hints, "  "))

	return theme.ToastStyle(color).
		MaxWidth(maxWidth).
		Render(content)
}

// RenderToastStack renders notifications oldest-first, stacked vertically with
// the newest at the bottom. When width and height are positive the stack is
// placed in the bottom-right corner of that area.
func RenderToastStack(theme *styles.Theme, items []notify.Notification, now time.Time, width, height int) string {
	if len(items) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(items))
	for _, n := range items {
		rendered = append(rendered, RenderToast(theme, n, now, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	positioned := lipgloss.NewStyle().
		MarginRight(1).
		Render(stack)

	if width > 0 && height > 0 {
		return lipgloss.Place(
			width, height,
			lipgloss.Right, lipgloss.Bottom,
			positioned,
		)
	}
	return positioned
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// timeRemaining is an approximation for display only. Eviction always takes
// the oldest notification, so a toast may leave before its own countdown ends.
func timeRemaining(n notify.Notification, now time.Time) time.Duration {
	if n.Duration <= 0 {
		return 0
	}
	remaining := n.Duration - now.Sub(n.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// wrapToastText performs simple word wrapping for toast messages.
func wrapToastText(text string, maxWidth int) string {
	if maxWidth <= 0 || util.StringWidth(text) <= maxWidth {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range words {
		w := util.StringWidth(word)
		switch {
		case lineWidth == 0:
			currentLine.WriteString(word)
			lineWidth = w
		case lineWidth+1+w <= maxWidth:
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
			lineWidth += 1 + w
		default:
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
			lineWidth = w
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return strings.Join(lines, "\n")
}
