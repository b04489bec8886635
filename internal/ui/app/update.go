// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/correspond-tui/internal/draft"
	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/push"
	"github.com/jeranaias/correspond-tui/internal/session"
)

// User-facing messages.
const (
	msgReconnected       = "Reconnected to the server"
	msgOffline           = "Connection lost - working offline"
	msgAttachmentDeleted = "Attachment deleted successfully"
	msgAttachmentError   = "Error deleting attachment"
	msgSaved             = "Correspondence saved"
	msgDraftRestored     = "Restored unsaved draft"
	msgConfigReloaded    = "Configuration reloaded"
)

// Update handles one message. All list, queue and draft mutation happens
// here, one message at a time.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case session.TickMsg:
		m.frame++
		m.list.Settle()
		cmd = session.TickCmd()

	case TimerMsg:
		msg.Fn()

	case EventMsg:
		m.handleEvent(msg.Event)

	case ConnectionMsg:
		cmd = m.handleConnection(msg)

	case ConfigMsg:
		if msg.Config != nil {
			m.applyConfig(msg.Config)
			m.queue.Notify(msgConfigReloaded, model.SeverityInfo)
		}

	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("LIST_LOAD_ERROR | error=%v", msg.err)
			m.queue.Notify("Could not load correspondence: "+msg.err.Error(), model.SeverityError)
			break
		}
		m.list.Load(msg.entries)

	case attachmentDeletedMsg:
		m.handleAttachmentDeleted(msg)

	case submittedMsg:
		cmd = m.handleSubmitted(msg)

	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
	}

	return m, m.drain(cmd)
}

// drain combines cmd with commands queued by timer callbacks.
func (m *Model) drain(cmd tea.Cmd) tea.Cmd {
	if len(m.pending) == 0 {
		return cmd
	}
	cmds := append(m.pending, cmd)
	m.pending = nil
	return tea.Batch(cmds...)
}

// =============================================================================
// PUSH EVENTS
// =============================================================================

func (m *Model) handleEvent(ev push.Event) {
	m.session.RecordEvent(m.clock.Now())
	if err := push.Dispatch(m.list, ev); err != nil {
		log.Printf("PUSH_EVENT_ERROR | event=%s error=%v", ev.Name, err)
		return
	}
	m.session.SetSyncInProgress(m.list.Syncing())
}

func (m *Model) handleConnection(msg ConnectionMsg) tea.Cmd {
	switch m.session.SetOnline(msg.Connected) {
	case session.TransitionReconnected:
		m.queue.Notify(msgReconnected, model.SeveritySuccess)
		return m.loadCmd()
	case session.TransitionOffline:
		log.Printf("PUSH_OFFLINE | error=%v", msg.Err)
		m.queue.Notify(msgOffline, model.SeverityWarning)
	}
	return nil
}

// =============================================================================
// SERVER RESULTS
// =============================================================================

func (m *Model) handleAttachmentDeleted(msg attachmentDeletedMsg) {
	if msg.err != nil {
		log.Printf("ATTACHMENT_DELETE_ERROR | id=%d error=%v", msg.id, msg.err)
		m.queue.Notify(msgAttachmentError, model.SeverityError)
		return
	}
	log.Printf("ATTACHMENT_DELETED | id=%d", msg.id)
	m.queue.Notify(msgAttachmentDeleted, model.SeveritySuccess)
	m.clock.AfterFunc(m.cfg.ReloadDelay(), func() {
		if cmd := m.loadCmd(); cmd != nil {
			m.pending = append(m.pending, cmd)
		}
	})
}

func (m *Model) handleSubmitted(msg submittedMsg) tea.Cmd {
	m.submitting = false
	if msg.err != nil {
		log.Printf("SUBMIT_ERROR | path=%s error=%v", msg.path, msg.err)
		m.queue.Notify("Error saving correspondence: "+msg.err.Error(), model.SeverityError)
		return nil
	}
	m.queue.Notify(msgSaved, model.SeveritySuccess)
	if m.form != nil && m.form.PagePath() == msg.path {
		m.closeForm(false)
	}
	return m.loadCmd()
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		m.closeForm(true)
		return nil, true
	}

	switch m.view {
	case viewForm:
		return m.handleFormKey(msg), false
	case viewAttachmentPrompt:
		return m.handlePromptKey(msg), false
	case viewConfirmDelete:
		return m.handleConfirmKey(msg), false
	}

	rows := m.list.Rows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Up):
		m.table.Move(rows, -1)
	case key.Matches(msg, m.keys.Down):
		m.table.Move(rows, 1)
	case key.Matches(msg, m.keys.PageUp):
		m.table.Move(rows, -m.table.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.table.Move(rows, m.table.Height)
	case key.Matches(msg, m.keys.New):
		return m.openForm(0, nil), false
	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.table.Selected(rows); ok {
			entry := row.Entry
			return m.openForm(entry.ID, &entry), false
		}
	case key.Matches(msg, m.keys.Delete):
		m.prompt.SetValue("")
		m.view = viewAttachmentPrompt
		return m.prompt.Focus(), false
	case key.Matches(msg, m.keys.Dismiss):
		m.queue.DismissNewest()
	case key.Matches(msg, m.keys.Reload):
		return m.loadCmd(), false
	}
	return nil, false
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt.Blur()
		m.view = viewList
		return nil
	case tea.KeyEnter:
		id, err := strconv.ParseInt(strings.TrimSpace(m.prompt.Value()), 10, 64)
		if err != nil || id <= 0 {
			m.queue.Notify("Attachment id must be a positive number", model.SeverityError)
			return nil
		}
		m.prompt.Blur()
		m.attachmentID = id
		m.view = viewConfirmDelete
		return nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.view = viewList
		if m.api == nil {
			return nil
		}
		return m.deleteAttachmentCmd(m.attachmentID)
	case key.Matches(msg, m.keys.Deny):
		m.view = viewList
	}
	return nil
}

// =============================================================================
// FORM
// =============================================================================

// openForm shows the form for a new record (editID zero) or an existing one,
// then restores any saved draft over the prefilled values.
func (m *Model) openForm(editID int64, entry *model.Entry) tea.Cmd {
	form := NewForm(editID)
	if entry != nil {
		form.Prefill(*entry)
	}
	form.SetWidth(m.width)

	m.form = form
	m.drafts = draft.New(m.store, m.clock, form, form.PagePath(), "", m.cfg.DebounceWindow())
	if restored := m.drafts.Restore(); restored > 0 {
		m.queue.Notify(msgDraftRestored, model.SeverityInfo)
	}
	m.view = viewForm
	m.header.Subtitle = form.Title()
	return nil
}

// closeForm leaves the form. When keepDraft is set a pending save is written
// first so no typing is lost; otherwise it is dropped.
func (m *Model) closeForm(keepDraft bool) {
	if m.drafts != nil {
		if keepDraft {
			m.drafts.Flush()
		} else {
			m.drafts.Cancel()
		}
	}
	m.form = nil
	m.drafts = nil
	m.view = viewList
	m.header.Subtitle = "Recent correspondence"
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeForm(true)
		return nil
	case key.Matches(msg, m.keys.Save):
		return m.submitForm()
	}
	// The draft is already cleared while a submission is in flight.
	if m.submitting {
		return nil
	}

	changed, cmd := m.form.Update(msg, m.keys)
	if changed != "" {
		m.drafts.CaptureInput(changed, m.form.Value(changed))
	}
	return cmd
}

// submitForm validates the form. A rejected form keeps its draft; an
// accepted one clears the draft before the request is sent.
func (m *Model) submitForm() tea.Cmd {
	if m.submitting {
		return nil
	}
	values := m.form.Values()
	if err := ValidateForm(values); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			m.form.FocusField(fe.Field)
			m.queue.Notify(fe.Notice(), model.SeverityError)
		} else {
			m.queue.Notify(fmt.Sprintf("Invalid form: %v", err), model.SeverityError)
		}
		return nil
	}

	m.drafts.Clear()
	if m.api == nil {
		return nil
	}
	m.submitting = true
	return m.submitCmd(m.form.PagePath(), values, m.form.Attachments())
}
