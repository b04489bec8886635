// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/ui/components"
)

// resize lays the fixed parts out for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.table.SetSize(width, height-2)
	if m.form != nil {
		m.form.SetWidth(width)
	}
}

// View renders the screen: header, body, toasts, status bar.
func (m *Model) View() string {
	now := m.clock.Now()

	toasts := components.RenderToastStack(m.theme, m.queue.Items(), now, m.width, 0)
	toastHeight := 0
	if toasts != "" {
		toasts = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toasts)
		toastHeight = lipgloss.Height(toasts)
	}

	overlay := ""
	if m.list.Syncing() {
		overlay = components.RenderSyncOverlay(m.theme, m.frame, m.width)
	}

	bodyHeight := m.height - 2 - toastHeight - lipgloss.Height(overlay)
	if overlay == "" {
		bodyHeight++
	}
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch m.view {
	case viewForm:
		body = m.form.View(m.theme)
	case viewAttachmentPrompt:
		body = m.viewPrompt()
	case viewConfirmDelete:
		body = m.viewConfirm()
	default:
		m.table.SetSize(m.width, bodyHeight)
		body = m.table.View(m.list.Rows())
		if m.loading && m.list.Len() == 0 {
			body = m.theme.EmptyList.Render("Loading...")
		}
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	if m.view == viewForm {
		m.statusBar.Shortcuts = m.keys.FormHelp()
	} else {
		m.statusBar.Shortcuts = m.keys.ListHelp()
	}

	parts := []string{m.header.View()}
	if overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, body)
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.statusBar.View(m.session.GetStatus(now)))
	return strings.Join(parts, "\n")
}

func (m *Model) viewPrompt() string {
	return strings.Join([]string{
		m.theme.FormTitle.Render("Delete attachment"),
		m.theme.FormLabel.Render("Attachment id") + m.prompt.View(),
		"",
		m.theme.FormHint.Render("Enter to continue, Esc to cancel"),
	}, "\n")
}

func (m *Model) viewConfirm() string {
	return strings.Join([]string{
		m.theme.FormTitle.Render("Delete attachment"),
		fmt.Sprintf("Are you sure you want to delete attachment #%d?", m.attachmentID),
		"",
		m.theme.FormHint.Render("y to delete, n to cancel"),
	}, "\n")
}
