// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the correspond TUI: a live list of recent correspondence
// and a new/edit form with draft autosave.
//
// Everything that changes state reaches the model as a message. Push events
// arrive as EventMsg, connection changes as ConnectionMsg, and timer
// callbacks as TimerMsg, so the reconciled list, the notification queue and
// the draft store are only touched from Update. A Bridge collects these
// from their goroutines:
//
//	bridge := app.NewBridge()
//	loop := clock.OnLoop(clock.Real(), bridge.Post)
//	m := app.New(app.Deps{Clock: loop, ...})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	bridge.Attach(p.Send)
//	go transport.Run(ctx, bridge)
package app
