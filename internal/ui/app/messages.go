// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/correspond-tui/internal/config"
	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/push"
)

// =============================================================================
// MESSAGES
// =============================================================================

// EventMsg carries one push event into the update loop.
type EventMsg struct {
	Event push.Event
}

// ConnectionMsg reports the push connection going up or down.
type ConnectionMsg struct {
	Connected bool
	Err       error
}

// TimerMsg runs a timer callback on the update loop.
type TimerMsg struct {
	Fn func()
}

// ConfigMsg delivers a reloaded configuration.
type ConfigMsg struct {
	Config *config.Config
}

type entriesLoadedMsg struct {
	entries []model.Entry
	err     error
}

type attachmentDeletedMsg struct {
	id  int64
	err error
}

type submittedMsg struct {
	path string
	err  error
}

// =============================================================================
// BRIDGE
// =============================================================================

// Bridge turns work from other goroutines (push transport, timers, config
// watcher) into messages on the Bubble Tea loop. Messages sent before Attach
// are held and replayed in order.
type Bridge struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	backlog []tea.Msg
}

// NewBridge creates a detached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach starts delivering to send, usually (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
	for _, msg := range b.backlog {
		send(msg)
	}
	b.backlog = nil
}

// Send delivers msg, or holds it until Attach. Sends are serialized so
// messages keep their order.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.send == nil {
		b.backlog = append(b.backlog, msg)
		return
	}
	b.send(msg)
}

// Post queues a timer callback. It is the post function for clock.OnLoop.
func (b *Bridge) Post(f func()) {
	b.Send(TimerMsg{Fn: f})
}

// Deliver implements push.Sink.
func (b *Bridge) Deliver(ev push.Event) {
	b.Send(EventMsg{Event: ev})
}

// ConnectionChanged implements push.Sink.
func (b *Bridge) ConnectionChanged(connected bool, err error) {
	b.Send(ConnectionMsg{Connected: connected, Err: err})
}

// ConfigChanged forwards a reloaded configuration.
func (b *Bridge) ConfigChanged(cfg *config.Config) {
	b.Send(ConfigMsg{Config: cfg})
}
