// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"log"
	"strings"
	"time"
)

// =============================================================================
// CORRESPONDENCE TYPE
// =============================================================================

// Direction tells whether a correspondence was received or sent.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// DisplayName returns the label shown in the list.
func (d Direction) DisplayName() string {
	switch d {
	case DirectionIncoming:
		return "Incoming"
	case DirectionOutgoing:
		return "Outgoing"
	default:
		return string(d)
	}
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// Status values used by the server.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusArchived  = "archived"
)

// Priority values accepted by the server.
var Priorities = []string{"low", "normal", "high", "urgent"}

// ValidPriority reports whether p is one of Priorities.
func ValidPriority(p string) bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// =============================================================================
// LIST ENTRY
// =============================================================================

// Entry is the projection of one correspondence record shown as a list row.
// It doubles as the payload of entity push events.
type Entry struct {
	ID              int64     `json:"id"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Subject         string    `json:"subject"`
	Type            Direction `json:"type"`
	Status          string    `json:"status,omitempty"`
	Priority        string    `json:"priority,omitempty"`
	Department      string    `json:"department,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// timestampLayouts are tried in order. Zone-less values are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp parses a server timestamp in any of the accepted layouts.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes an entry. created_at is display-only, so a value that
// does not parse leaves CreatedAt zero instead of failing the entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"created_at"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	e.CreatedAt = time.Time{}
	if len(aux.CreatedAt) == 0 || string(aux.CreatedAt) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(aux.CreatedAt, &raw); err != nil || raw == "" {
		log.Printf("ENTRY_TIMESTAMP_INVALID | id=%d value=%s", e.ID, aux.CreatedAt)
		return nil
	}
	if t, ok := parseTimestamp(raw); ok {
		e.CreatedAt = t
	} else {
		log.Printf("ENTRY_TIMESTAMP_INVALID | id=%d value=%q", e.ID, raw)
	}
	return nil
}

// Normalize fills display defaults for fields the server may omit.
// New rows are pending with normal priority, as on the server.
func (e Entry) Normalize() Entry {
	e.Subject = strings.TrimSpace(e.Subject)
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.Priority == "" {
		e.Priority = "normal"
	}
	return e
}
