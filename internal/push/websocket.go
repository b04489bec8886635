// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// WebSocketSettings tunes the websocket transport.
type WebSocketSettings struct {
	HandshakeTimeout  time.Duration
	WriteTimeout      time.Duration
	PingInterval      time.Duration
	ReadTimeout       time.Duration // Must exceed PingInterval
	ReconnectInterval time.Duration // Minimum spacing of connection attempts
}

// DefaultWebSocketSettings returns the settings used by the TUI.
func DefaultWebSocketSettings() WebSocketSettings {
	return WebSocketSettings{
		HandshakeTimeout:  5 * time.Second,
		WriteTimeout:      5 * time.Second,
		PingInterval:      15 * time.Second,
		ReadTimeout:       45 * time.Second,
		ReconnectInterval: 3 * time.Second,
	}
}

// WebSocketURL derives the push endpoint from a server URL. http and https
// become ws and wss; an empty path becomes /ws.
func WebSocketURL(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", server)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// WebSocketTransport receives push events over a websocket and reconnects
// when the connection drops.
type WebSocketTransport struct {
	url      string
	join     JoinPayload
	settings WebSocketSettings

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewWebSocketTransport creates a transport for the given ws:// or wss://
// URL. It does not connect until Run.
func NewWebSocketTransport(wsURL string, join JoinPayload, settings WebSocketSettings) *WebSocketTransport {
	return &WebSocketTransport{url: wsURL, join: join, settings: settings}
}

// URL returns the endpoint.
func (t *WebSocketTransport) URL() string { return t.url }

// Run connects and keeps reconnecting until ctx is done or Close is called.
func (t *WebSocketTransport) Run(ctx context.Context, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTransportClosed
	}
	t.cancel = cancel
	t.mu.Unlock()

	limiter := rate.NewLimiter(rate.Every(t.settings.ReconnectInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}

		conn, err := t.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("PUSH_CONNECT_ERROR | url=%s error=%v", t.url, err)
			continue
		}

		log.Printf("PUSH_CONNECT | url=%s room=%s", t.url, t.join.Room)
		sink.ConnectionChanged(true, nil)

		err = t.serve(ctx, conn, sink)
		if ctx.Err() != nil {
			sink.ConnectionChanged(false, nil)
			return nil
		}
		log.Printf("PUSH_DISCONNECT | url=%s error=%v", t.url, err)
		sink.ConnectionChanged(false, err)
	}
}

// connect dials and announces the session.
func (t *WebSocketTransport) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: t.settings.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return nil, err
	}

	frame, err := Encode(EventJoin, t.join)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetWriteDeadline(time.Now().Add(t.settings.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send join: %w", err)
	}
	return conn, nil
}

// serve reads frames until the connection fails or ctx is done.
func (t *WebSocketTransport) serve(ctx context.Context, conn *websocket.Conn, sink Sink) error {
	connCtx, cancel := context.WithCancel(ctx)
	pingerDone := make(chan struct{})
	defer func() {
		cancel()
		<-pingerDone
	}()

	conn.SetReadDeadline(time.Now().Add(t.settings.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(t.settings.ReadTimeout))
	})

	go func() {
		defer close(pingerDone)
		defer conn.Close()

		ticker := time.NewTicker(t.settings.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-connCtx.Done():
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(t.settings.WriteTimeout))
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(t.settings.WriteTimeout)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(t.settings.ReadTimeout))

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		ev, err := Decode(frame)
		if err != nil {
			log.Printf("PUSH_DECODE_ERROR | url=%s error=%v", t.url, err)
			continue
		}
		sink.Deliver(ev)
	}
}

// Close stops Run. A closed transport cannot be restarted.
func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}
