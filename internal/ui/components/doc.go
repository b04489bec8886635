// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components renders the pieces of the correspond screen.

Components only render; state lives in the reconcile list, the notification
queue and the session, and the app model passes snapshots in.

# Components

Header (header.go) - Title line with the current view and server address.
Table (table.go) - Correspondence list. Entering rows are highlighted,
exiting rows are struck through until the list removes them.
StatusBar (statusbar.go) - Connection, sync and session state plus key hints.
Toasts (toast.go) - Notification queue rendered bottom-right, oldest on top.

# Responsive Layout

Table and StatusBar drop columns below 100 and 60 columns of width, matching
styles.LayoutMode.
*/
package components
