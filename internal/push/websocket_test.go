// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() WebSocketSettings {
	return WebSocketSettings{
		HandshakeTimeout:  time.Second,
		WriteTimeout:      time.Second,
		PingInterval:      50 * time.Millisecond,
		ReadTimeout:       time.Second,
		ReconnectInterval: 10 * time.Millisecond,
	}
}

// pushServer accepts websocket clients, records their join frames and plays
// a script of frames on each connection before hanging up.
type pushServer struct {
	*httptest.Server
	joins  chan Event
	script [][]string // frames per connection, in order
	conns  atomic.Int32
}

func newPushServer(t *testing.T, script ...[]string) *pushServer {
	ps := &pushServer{joins: make(chan Event, 8), script: script}
	upgrader := websocket.Upgrader{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, frame, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if ev, err := Decode(frame); err == nil {
			ps.joins <- ev
		}

		n := int(ps.conns.Add(1)) - 1
		if n >= len(ps.script) {
			// Stay connected, answering pings, until the client leaves.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}
		for _, f := range ps.script[n] {
			conn.WriteMessage(websocket.TextMessage, []byte(f))
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "restart"))
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *pushServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ps.URL, "http")
}

func TestWebSocketTransport_DeliversAndRejoinsAfterReconnect(t *testing.T) {
	ps := newPushServer(t,
		[]string{
			`{"event":"entity_added","data":{"id":1,"subject":"a"}}`,
			`garbage`,
			`{"event":"sync_start"}`,
		},
	)
	join := JoinPayload{UserID: "42", Room: "user_42"}
	tr := NewWebSocketTransport(ps.wsURL(), join, testSettings())
	sink := newChanSink()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx, sink) }()

	assert.True(t, sink.nextState(t))
	assert.Equal(t, EventEntityAdded, sink.nextEvent(t).Name)
	assert.Equal(t, EventSyncStart, sink.nextEvent(t).Name, "undecodable frames are skipped")
	assert.False(t, sink.nextState(t), "server hang-up is reported")
	assert.True(t, sink.nextState(t), "transport reconnects")

	for i := 0; i < 2; i++ {
		select {
		case ev := <-ps.joins:
			assert.Equal(t, EventJoin, ev.Name)
			assert.JSONEq(t, `{"user_id":"42","room":"user_42"}`, string(ev.Data))
		case <-time.After(5 * time.Second):
			t.Fatal("missing join")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, sink.nextState(t))
}

func TestWebSocketTransport_CloseStopsRun(t *testing.T) {
	ps := newPushServer(t)
	tr := NewWebSocketTransport(ps.wsURL(), JoinPayload{Room: "r"}, testSettings())
	sink := newChanSink()

	done := make(chan error, 1)
	go func() { done <- tr.Run(context.Background(), sink) }()
	require.True(t, sink.nextState(t))

	// Let a few keepalive pings go through.
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, tr.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.ErrorIs(t, tr.Run(context.Background(), sink), ErrTransportClosed)
}

func TestWebSocketTransport_KeepsRetryingUnreachableServer(t *testing.T) {
	ps := newPushServer(t)
	url := ps.wsURL()
	ps.Close()

	tr := NewWebSocketTransport(url, JoinPayload{}, testSettings())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sink := newChanSink()
	assert.NoError(t, tr.Run(ctx, sink))
	assert.Empty(t, sink.states, "never connected")
}
