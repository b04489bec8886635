// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is the NATS subject prefix used when none is set.
const DefaultSubjectPrefix = "correspondence"

// NATSTransport receives events published on "<prefix>.<event>" subjects.
// Reconnection is left to the NATS client.
type NATSTransport struct {
	url    string
	prefix string
	join   JoinPayload

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewNATSTransport creates a transport for the NATS server at natsURL.
func NewNATSTransport(natsURL, prefix string, join JoinPayload) *NATSTransport {
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSTransport{url: natsURL, prefix: strings.TrimSuffix(prefix, "."), join: join}
}

// Subject returns the subject an event name is published on.
func (t *NATSTransport) Subject(event string) string {
	return t.prefix + "." + event
}

// eventName extracts the event name from a subject under the prefix.
func (t *NATSTransport) eventName(subject string) (string, bool) {
	name, ok := strings.CutPrefix(subject, t.prefix+".")
	if !ok || name == "" || strings.Contains(name, ".") {
		return "", false
	}
	return name, true
}

// Run connects, subscribes and blocks until ctx is done or Close is called.
func (t *NATSTransport) Run(ctx context.Context, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTransportClosed
	}
	t.cancel = cancel
	t.mu.Unlock()

	nc, err := nats.Connect(t.url,
		nats.Name("correspond-tui"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("PUSH_DISCONNECT | url=%s error=%v", t.url, err)
			sink.ConnectionChanged(false, err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("PUSH_CONNECT | url=%s room=%s reconnect=true", t.url, t.join.Room)
			t.announce(nc)
			sink.ConnectionChanged(true, nil)
		}),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	defer nc.Close()

	sub, err := nc.Subscribe(t.prefix+".*", func(msg *nats.Msg) {
		if ev, ok := t.toEvent(msg); ok {
			sink.Deliver(ev)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s.*: %w", t.prefix, err)
	}
	defer sub.Unsubscribe()

	log.Printf("PUSH_CONNECT | url=%s room=%s", t.url, t.join.Room)
	t.announce(nc)
	sink.ConnectionChanged(true, nil)

	<-ctx.Done()
	sink.ConnectionChanged(false, nil)
	return nil
}

// toEvent converts a message to an event. The join subject is our own
// outbound traffic and is skipped.
func (t *NATSTransport) toEvent(msg *nats.Msg) (Event, bool) {
	name, ok := t.eventName(msg.Subject)
	if !ok || name == EventJoin {
		return Event{}, false
	}
	data := msg.Data
	if len(data) > 0 && !json.Valid(data) {
		log.Printf("PUSH_DECODE_ERROR | subject=%s error=invalid json", msg.Subject)
		return Event{}, false
	}
	return Event{Name: name, Data: json.RawMessage(data)}, true
}

func (t *NATSTransport) announce(nc *nats.Conn) {
	data, err := json.Marshal(t.join)
	if err == nil {
		err = nc.Publish(t.Subject(EventJoin), data)
	}
	if err != nil {
		log.Printf("PUSH_JOIN_ERROR | url=%s error=%v", t.url, err)
	}
}

// Close stops Run.
func (t *NATSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}
