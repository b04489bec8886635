// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colors and lipgloss styles of the correspond TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
The "ui.theme" setting can force one or the other.

# Colors (colors.go)

  - Cyan - Brand color, headers, references
  - Emerald - Success toasts, online indicator, entering rows
  - Amber - Warning toasts, high priority
  - Rose - Error toasts, offline indicator, urgent priority
  - Blue - Info toasts, incoming correspondence
  - Purple - Focus and outgoing correspondence

Every severity also has an ASCII indicator ([OK], [X], [!], [i]) so no
state is conveyed by color alone.

# Theme (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(msg.Width, msg.Height)
	row := theme.RowExiting.Render(text)
*/
package styles
