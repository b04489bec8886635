// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/correspond-tui/internal/clock"
	"github.com/jeranaias/correspond-tui/internal/config"
	"github.com/jeranaias/correspond-tui/internal/draft"
	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/notify"
	"github.com/jeranaias/correspond-tui/internal/reconcile"
	"github.com/jeranaias/correspond-tui/internal/session"
	"github.com/jeranaias/correspond-tui/internal/storage"
	"github.com/jeranaias/correspond-tui/internal/ui/components"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
)

// API is the server the TUI talks to. *api.Client satisfies it.
type API interface {
	ListRecent(ctx context.Context, limit int) ([]model.Entry, error)
	DeleteAttachment(ctx context.Context, id int64) error
	SubmitCorrespondence(ctx context.Context, path string, values map[string]string, attachments []string) error
}

// Deps are the collaborators of the TUI.
type Deps struct {
	Config  *config.Config
	Clock   clock.Clock // Callbacks must arrive on the update loop, see clock.OnLoop
	Store   storage.Store
	API     API
	Session *session.Session
	Theme   *styles.Theme
}

// =============================================================================
// MODEL
// =============================================================================

type view int

const (
	viewList view = iota
	viewForm
	viewAttachmentPrompt
	viewConfirmDelete
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	clock   clock.Clock
	store   storage.Store
	api     API
	session *session.Session
	theme   *styles.Theme
	keys    KeyMap

	queue *notify.Queue
	list  *reconcile.List

	header    *components.Header
	table     *components.Table
	statusBar *components.StatusBar

	view   view
	form   *Form
	drafts *draft.Store
	prompt textinput.Model

	attachmentID int64
	submitting   bool
	loading      bool
	frame        int

	// Commands requested by timer callbacks, returned from the Update that
	// ran them.
	pending []tea.Cmd

	width  int
	height int
}

// New creates the model.
func New(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}

	queue := notify.NewQueue(deps.Clock)
	list := reconcile.NewList(deps.Clock, queue, reconcile.Options{})

	prompt := textinput.New()
	prompt.Placeholder = "attachment id"
	prompt.CharLimit = 19

	m := &Model{
		clock:     deps.Clock,
		store:     deps.Store,
		api:       deps.API,
		session:   deps.Session,
		theme:     theme,
		keys:      DefaultKeyMap(),
		queue:     queue,
		list:      list,
		header:    components.NewHeader(theme),
		table:     components.NewTable(theme),
		statusBar: components.NewStatusBar(theme),
		prompt:    prompt,
		width:     80,
		height:    24,
	}
	m.header.Subtitle = "Recent correspondence"
	m.applyConfig(cfg)
	m.resize(m.width, m.height)
	return m
}

// applyConfig pushes timing and display settings into the collaborators.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.queue.SetDurations(cfg.NotificationDurations())
	m.queue.SetCapacity(cfg.Notifications.Capacity)
	m.list.SetOptions(reconcile.Options{
		ExitDelay:      cfg.ExitDelay(),
		NotifyDuration: cfg.NotificationDuration(),
	})
	if m.drafts != nil {
		m.drafts.SetWindow(cfg.DebounceWindow())
	}
	m.statusBar.ShowSession = cfg.UI.ShowSession
	m.header.Server = cfg.Server.URL
}

// List exposes the reconciled list.
func (m *Model) List() *reconcile.List { return m.list }

// Queue exposes the notification queue.
func (m *Model) Queue() *notify.Queue { return m.queue }

// Init loads the list and starts the status tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), session.TickCmd())
}

// =============================================================================
// COMMANDS
// =============================================================================

// requestContext returns a context factory bound to the current timeout, so
// commands never read the config from their own goroutine.
func (m *Model) requestContext() func() (context.Context, context.CancelFunc) {
	timeout := m.cfg.ServerTimeout()
	return func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), timeout)
	}
}

func (m *Model) loadCmd() tea.Cmd {
	if m.api == nil {
		return nil
	}
	m.loading = true
	limit := m.cfg.List.Limit
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		entries, err := m.api.ListRecent(ctx, limit)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) deleteAttachmentCmd(id int64) tea.Cmd {
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		return attachmentDeletedMsg{id: id, err: m.api.DeleteAttachment(ctx, id)}
	}
}

func (m *Model) submitCmd(path string, values map[string]string, attachments []string) tea.Cmd {
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		return submittedMsg{path: path, err: m.api.SubmitCorrespondence(ctx, path, values, attachments)}
	}
}
