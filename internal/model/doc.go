// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the correspondence types shared across packages.
//
// # Key Types
//
//   - Entry: one correspondence record as shown in the list and carried by
//     entity push events
//   - Direction: incoming or outgoing
//   - EventKind: added, updated or deleted
//   - Severity: notification severity (info, success, warning, error)
package model
