// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package draft autosaves in-progress form input so it survives a closed view
// or a crashed session.
//
// A draft is one JSON object of field name to value, stored under
// "autosave-<page-path>" (plus "#<form-id>" when the form has an id). Writes
// are debounced: each input restarts the quiescence window, and only the
// final field set is written. File fields are never saved or restored.
//
// Storage and encoding failures are logged and otherwise ignored; a draft is
// a convenience and must never block the form.
package draft
