// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package push receives server-initiated events for the correspondence list.
//
// Events arrive as a named envelope with a JSON payload:
//
//	{"event": "entity_added", "data": {"id": 12, "subject": "..."}}
//
// Dispatch decodes the payload and calls the matching Handler method. Names
// that are not known return ErrUnknownEvent and should be ignored.
//
// Transports:
//   - WebSocketTransport: gorilla/websocket client with keepalive and a
//     rate-limited reconnect loop
//   - NATSTransport: one subject per event under a prefix
//   - Loopback: in-process delivery for tests and the offline demo
//
// Every transport announces the session with a join event each time a
// connection is established, so the server can route events to the right
// room after a reconnect.
package push
