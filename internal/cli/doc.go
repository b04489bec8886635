// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive correspond commands.
//
// Running correspond with no command starts the TUI. The remaining commands
// work without a terminal and accept --json for scripting:
//
//	correspond drafts list
//	correspond drafts show autosave-/correspondence/new
//	correspond attachment delete 42 --confirm
//	correspond config set push.transport nats
//
// # Key Types
//
//   - Args: parsed global flags and command
//   - ArgParser: flags and positionals of a subcommand
//   - Prompter: y/N confirmation for destructive commands
//   - JSONResponse: the --json output envelope
package cli
