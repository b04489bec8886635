// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrTransportClosed is returned by Run after Close.
var ErrTransportClosed = errors.New("push transport closed")

// Sink receives what a transport observes. Implementations must be safe to
// call from the transport's goroutines.
type Sink interface {
	// Deliver hands over one inbound event.
	Deliver(ev Event)

	// ConnectionChanged reports the connection going up or down. err is the
	// cause of a disconnect and nil otherwise.
	ConnectionChanged(connected bool, err error)
}

// Transport is a push channel to the server.
type Transport interface {
	// Run connects and delivers events to sink until ctx is done or the
	// transport is closed. Connection loss is retried, not returned.
	Run(ctx context.Context, sink Sink) error

	// Close stops Run and releases the connection.
	Close() error
}

// SinkFuncs adapts two functions to Sink. Nil functions are skipped.
type SinkFuncs struct {
	OnEvent func(Event)
	OnState func(connected bool, err error)
}

func (s SinkFuncs) Deliver(ev Event) {
	if s.OnEvent != nil {
		s.OnEvent(ev)
	}
}

func (s SinkFuncs) ConnectionChanged(connected bool, err error) {
	if s.OnState != nil {
		s.OnState(connected, err)
	}
}

// Kind names accepted by New.
const (
	KindWebSocket = "websocket"
	KindNATS      = "nats"
	KindLoopback  = "loopback"
)

// Options selects and configures a transport.
type Options struct {
	Kind      string
	ServerURL string // websocket URL, or http(s) server URL to derive it from
	NATSURL   string
	Subject   string // NATS subject prefix
	Join      JoinPayload

	// Zero values keep the websocket defaults.
	PingInterval      time.Duration
	ReconnectInterval time.Duration
}

func (o Options) webSocketSettings() WebSocketSettings {
	s := DefaultWebSocketSettings()
	if o.PingInterval > 0 {
		s.PingInterval = o.PingInterval
		s.ReadTimeout = 3 * o.PingInterval
	}
	if o.ReconnectInterval > 0 {
		s.ReconnectInterval = o.ReconnectInterval
	}
	return s
}

// New builds the transport named by opts.Kind.
func New(opts Options) (Transport, error) {
	switch strings.ToLower(opts.Kind) {
	case KindWebSocket, "":
		url, err := WebSocketURL(opts.ServerURL)
		if err != nil {
			return nil, err
		}
		return NewWebSocketTransport(url, opts.Join, opts.webSocketSettings()), nil
	case KindNATS:
		return NewNATSTransport(opts.NATSURL, opts.Subject, opts.Join), nil
	case KindLoopback:
		return NewLoopback().WithJoin(opts.Join), nil
	default:
		return nil, fmt.Errorf("unknown push transport %q", opts.Kind)
	}
}

// =============================================================================
// LOOPBACK
// =============================================================================

// Loopback delivers events published in-process. Publish blocks until the
// sink has received the event.
type Loopback struct {
	mu     sync.Mutex
	sink   Sink
	join   JoinPayload
	joins  []JoinPayload
	done   chan struct{}
	closed bool
}

// NewLoopback creates an idle loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{done: make(chan struct{})}
}

// Run attaches sink and reports the connection up until ctx is done.
func (l *Loopback) Run(ctx context.Context, sink Sink) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrTransportClosed
	}
	l.sink = sink
	if l.join != (JoinPayload{}) {
		l.joins = append(l.joins, l.join)
	}
	l.mu.Unlock()

	sink.ConnectionChanged(true, nil)
	select {
	case <-ctx.Done():
	case <-l.done:
	}

	l.mu.Lock()
	l.sink = nil
	l.mu.Unlock()
	sink.ConnectionChanged(false, nil)
	return nil
}

// Publish delivers an event to the attached sink. Returns false when nothing
// is attached.
func (l *Loopback) Publish(ev Event) bool {
	l.mu.Lock()
	sink := l.sink
	l.mu.Unlock()
	if sink == nil {
		return false
	}
	sink.Deliver(ev)
	return true
}

// PublishPayload encodes payload and publishes it under name.
func (l *Loopback) PublishPayload(name string, payload any) error {
	frame, err := Encode(name, payload)
	if err != nil {
		return err
	}
	ev, err := Decode(frame)
	if err != nil {
		return err
	}
	l.Publish(ev)
	return nil
}

// WithJoin sets the join announcement recorded each time Run attaches.
func (l *Loopback) WithJoin(p JoinPayload) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.join = p
	return l
}

// Joins returns the join announcements made so far.
func (l *Loopback) Joins() []JoinPayload {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]JoinPayload, len(l.joins))
	copy(out, l.joins)
	return out
}

// Close detaches the sink and stops Run.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.done)
	}
	return nil
}
