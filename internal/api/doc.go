// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the correspondence server.
//
// It covers the calls the terminal client makes outside the push channel:
// deleting an attachment, listing recent correspondence and submitting the
// new/edit form. Requests are never retried; callers report failures to the
// user and move on.
package api
