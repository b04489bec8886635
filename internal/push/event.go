// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/correspond-tui/internal/model"
)

// =============================================================================
// EVENT NAMES
// =============================================================================

// Inbound event names.
const (
	EventEntityAdded   = "entity_added"
	EventEntityUpdated = "entity_updated"
	EventEntityDeleted = "entity_deleted"
	EventSyncStart     = "sync_start"
	EventSyncComplete  = "sync_complete"
	EventSyncError     = "sync_error"
)

// EventJoin is the outbound room announcement.
const EventJoin = "join"

// aliases maps the legacy server event names to their canonical form.
var aliases = map[string]string{
	"correspondence_added":   EventEntityAdded,
	"correspondence_updated": EventEntityUpdated,
	"correspondence_deleted": EventEntityDeleted,
}

// Canonical returns the canonical name for an event, resolving aliases.
func Canonical(name string) string {
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrUnknownEvent = errors.New("unknown push event")
	ErrBadPayload   = errors.New("malformed push payload")
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Event is one push message.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SyncError is the payload of sync_error.
type SyncError struct {
	Message string `json:"message"`
}

// JoinPayload announces which user and room this client listens for.
type JoinPayload struct {
	UserID string `json:"user_id"`
	Room   string `json:"room"`
}

// Decode parses a wire envelope.
func Decode(frame []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if ev.Name == "" {
		return Event{}, fmt.Errorf("%w: missing event name", ErrBadPayload)
	}
	return ev, nil
}

// Encode builds a wire envelope around payload.
func Encode(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return json.Marshal(Event{Name: name, Data: data})
}

// =============================================================================
// DISPATCH
// =============================================================================

// Handler receives decoded events. The reconciled list implements it.
type Handler interface {
	EntityAdded(entry model.Entry)
	EntityUpdated(entry model.Entry)
	EntityDeleted(entry model.Entry)
	SyncStarted()
	SyncCompleted()
	SyncFailed(message string)
}

// Dispatch decodes ev's payload and calls the matching Handler method. An
// entity event whose payload cannot be decoded is not delivered; a malformed
// sync_error still ends the sync with an empty message.
func Dispatch(h Handler, ev Event) error {
	switch Canonical(ev.Name) {
	case EventEntityAdded:
		entry, err := decodeEntry(ev)
		if err != nil {
			return err
		}
		h.EntityAdded(entry)
	case EventEntityUpdated:
		entry, err := decodeEntry(ev)
		if err != nil {
			return err
		}
		h.EntityUpdated(entry)
	case EventEntityDeleted:
		entry, err := decodeEntry(ev)
		if err != nil {
			return err
		}
		h.EntityDeleted(entry)
	case EventSyncStart:
		h.SyncStarted()
	case EventSyncComplete:
		h.SyncCompleted()
	case EventSyncError:
		var payload SyncError
		if len(ev.Data) > 0 {
			if err := json.Unmarshal(ev.Data, &payload); err != nil {
				h.SyncFailed("")
				return fmt.Errorf("%w: %s: %v", ErrBadPayload, ev.Name, err)
			}
		}
		h.SyncFailed(payload.Message)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}
	return nil
}

func decodeEntry(ev Event) (model.Entry, error) {
	var entry model.Entry
	if len(ev.Data) == 0 {
		return entry, fmt.Errorf("%w: %s: empty payload", ErrBadPayload, ev.Name)
	}
	if err := json.Unmarshal(ev.Data, &entry); err != nil {
		return entry, fmt.Errorf("%w: %s: %v", ErrBadPayload, ev.Name, err)
	}
	if entry.ID <= 0 {
		return entry, fmt.Errorf("%w: %s: missing id", ErrBadPayload, ev.Name)
	}
	return entry, nil
}
