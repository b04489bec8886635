// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/correspond-tui/internal/push"
)

// Defaults used when the configuration leaves the identity empty.
const (
	DefaultUserID = "anonymous"
	DefaultRoom   = "all_users"
)

// =============================================================================
// SESSION
// =============================================================================

// Session tracks one run of the client.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	userID    string
	room      string
	transport string
	startTime time.Time

	online         bool
	everOnline     bool
	syncInProgress bool
	lastEvent      time.Time
	disconnects    int
}

// New creates a session with a fresh random ID.
func New(userID, room, transport string) *Session {
	if userID == "" {
		userID = DefaultUserID
	}
	if room == "" {
		room = DefaultRoom
	}
	return &Session{
		id:        uuid.New(),
		userID:    userID,
		room:      room,
		transport: transport,
		startTime: time.Now(),
	}
}

// ID returns the session ID.
func (s *Session) ID() uuid.UUID { return s.id }

// UserID returns the user the session announces.
func (s *Session) UserID() string { return s.userID }

// Room returns the push room the session joins.
func (s *Session) Room() string { return s.room }

// Transport returns the name of the push transport in use.
func (s *Session) Transport() string { return s.transport }

// JoinPayload builds the join announcement sent on every connection.
func (s *Session) JoinPayload() push.JoinPayload {
	return push.JoinPayload{UserID: s.userID, Room: s.room}
}

// =============================================================================
// CONNECTION STATE
// =============================================================================

// Transition describes what a connection change means to the user.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionConnected
	TransitionReconnected
	TransitionOffline
)

// SetOnline records a connection change and returns how it should be
// announced. Repeated reports of the same state return TransitionNone.
func (s *Session) SetOnline(online bool) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	if online == s.online {
		return TransitionNone
	}
	s.online = online
	if !online {
		s.disconnects++
		return TransitionOffline
	}
	if s.everOnline {
		return TransitionReconnected
	}
	s.everOnline = true
	return TransitionConnected
}

// Online reports whether the push connection is up.
func (s *Session) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// SetSyncInProgress sets the sync overlay flag.
func (s *Session) SetSyncInProgress(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncInProgress = v
}

// SyncInProgress reports whether a server sync is running.
func (s *Session) SyncInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncInProgress
}

// RecordEvent notes that a push event arrived at t.
func (s *Session) RecordEvent(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEvent = t
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a snapshot of the session.
type Status struct {
	SessionID      string
	UserID         string
	Room           string
	Transport      string
	Online         bool
	SyncInProgress bool
	Disconnects    int
	Uptime         time.Duration
	SinceLastEvent time.Duration // Zero when no event has arrived
}

// GetStatus returns the current status as of now.
func (s *Session) GetStatus(now time.Time) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		SessionID:      s.id.String(),
		UserID:         s.userID,
		Room:           s.room,
		Transport:      s.transport,
		Online:         s.online,
		SyncInProgress: s.syncInProgress,
		Disconnects:    s.disconnects,
		Uptime:         now.Sub(s.startTime),
	}
	if !s.lastEvent.IsZero() {
		st.SinceLastEvent = now.Sub(s.lastEvent)
	}
	return st
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg refreshes the relative times in the status bar.
type TickMsg struct {
	Time time.Time
}

// TickCmd returns a command that ticks once a second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// FormatDuration returns a short human-readable duration.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
