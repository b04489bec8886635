// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for correspond.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, validation, and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - PushConfig: Push transport selection and tuning
//   - NotificationsConfig: Toast durations and capacity
//   - ValidationError: One invalid field
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CORRESPOND_*)
//   - ~/.correspond/config.toml
//   - ~/.correspond/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Printf("CONFIG_ERROR | error=%v", err)
//	}
//
// Follow edits while the TUI runs:
//
//	go config.Watch(ctx, clock.Real(), path, func(c *config.Config) {
//	    program.Send(app.ConfigMsg{Config: c})
//	})
package config
