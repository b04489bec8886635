// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/correspond-tui/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of every view.
type KeyMap struct {
	// List view
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Dismiss  key.Binding
	Reload   key.Binding
	Quit     key.Binding

	// Form view
	NextField  key.Binding
	PrevField  key.Binding
	NextOption key.Binding
	PrevOption key.Binding
	Save       key.Binding
	Back       key.Binding

	// Confirmation
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		New: key.NewBinding(
			key.WithKeys("n", "ctrl+n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "del attachment"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "prev field"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "next option"),
		),
		PrevOption: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "prev option"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// shortcuts converts bindings to status bar hints.
func shortcuts(bindings ...key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

// ListHelp returns the hints shown on the list view.
func (k KeyMap) ListHelp() []components.Shortcut {
	return shortcuts(k.New, k.Edit, k.Delete, k.Dismiss, k.Reload, k.Quit)
}

// FormHelp returns the hints shown on the form view.
func (k KeyMap) FormHelp() []components.Shortcut {
	return shortcuts(k.NextField, k.NextOption, k.Save, k.Back)
}
