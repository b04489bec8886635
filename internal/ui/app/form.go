// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/api"
	"github.com/jeranaias/correspond-tui/internal/draft"
	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
)

// =============================================================================
// FIELD LAYOUT
// =============================================================================

type fieldSpec struct {
	name        string
	label       string
	kind        draft.FieldKind
	required    bool
	multiline   bool
	editOnly    bool
	options     []string // select fields only
	placeholder string
}

// formFields lists the correspondence form inputs in display order.
var formFields = []fieldSpec{
	{name: "subject", label: "Subject", required: true},
	{name: "content", label: "Content", required: true, multiline: true},
	{name: "type", label: "Type", kind: draft.FieldSelect, required: true, options: []string{"", string(model.DirectionIncoming), string(model.DirectionOutgoing)}},
	{name: "sender", label: "Sender"},
	{name: "recipient", label: "Recipient"},
	{name: "priority", label: "Priority", kind: draft.FieldSelect, options: model.Priorities},
	{name: "status", label: "Status", kind: draft.FieldSelect, editOnly: true, options: []string{model.StatusPending, model.StatusProcessed, model.StatusArchived}},
	{name: "date_received", label: "Date received", placeholder: "YYYY-MM-DD"},
	{name: "attachments", label: "Attachments", kind: draft.FieldFile, placeholder: "file paths, comma separated"},
}

// =============================================================================
// FORM
// =============================================================================

// Form is the new/edit correspondence form. It implements draft.Form.
type Form struct {
	editID int64
	specs  []fieldSpec

	inputs  map[string]*textinput.Model
	content textarea.Model
	choice  map[string]int // select field -> option index

	focus int
	width int
}

// NewForm creates an empty form. editID zero means a new record.
func NewForm(editID int64) *Form {
	f := &Form{
		editID: editID,
		inputs: make(map[string]*textinput.Model),
		choice: make(map[string]int),
		width:  80,
	}
	for _, spec := range formFields {
		if spec.editOnly && editID == 0 {
			continue
		}
		f.specs = append(f.specs, spec)

		switch {
		case spec.multiline:
			ta := textarea.New()
			ta.ShowLineNumbers = false
			ta.SetHeight(5)
			ta.CharLimit = 0
			f.content = ta
		case spec.kind == draft.FieldSelect:
			f.choice[spec.name] = 0
		default:
			ti := textinput.New()
			ti.Placeholder = spec.placeholder
			ti.Prompt = ""
			f.inputs[spec.name] = &ti
		}
	}
	f.SetField("priority", "normal")
	f.focusCurrent()
	return f
}

// EditID returns the id of the record being edited, or zero.
func (f *Form) EditID() int64 { return f.editID }

// PagePath is the server path the form posts to. It also scopes the draft.
func (f *Form) PagePath() string {
	if f.editID > 0 {
		return api.EditPath(f.editID)
	}
	return api.NewPath
}

// Prefill copies a list entry into the form.
func (f *Form) Prefill(e model.Entry) {
	f.SetField("subject", e.Subject)
	f.SetField("type", string(e.Type))
	f.SetField("priority", e.Priority)
	f.SetField("status", e.Status)
}

// SetWidth sets the rendering width.
func (f *Form) SetWidth(width int) {
	f.width = width
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	for _, ti := range f.inputs {
		ti.Width = inputWidth
	}
	f.content.SetWidth(inputWidth)
}

// Fields returns every input with its current value.
func (f *Form) Fields() []draft.Field {
	out := make([]draft.Field, 0, len(f.specs))
	for _, spec := range f.specs {
		out = append(out, draft.Field{Name: spec.name, Value: f.Value(spec.name), Kind: spec.kind})
	}
	return out
}

// SetField writes value into the named input. Select fields only accept one
// of their options.
func (f *Form) SetField(name, value string) bool {
	spec, ok := f.spec(name)
	if !ok {
		return false
	}
	switch {
	case spec.multiline:
		f.content.SetValue(value)
	case spec.kind == draft.FieldSelect:
		for i, opt := range spec.options {
			if opt == value {
				f.choice[name] = i
				return true
			}
		}
		return false
	default:
		f.inputs[name].SetValue(value)
	}
	return true
}

// Value returns the current value of the named input.
func (f *Form) Value(name string) string {
	spec, ok := f.spec(name)
	if !ok {
		return ""
	}
	switch {
	case spec.multiline:
		return f.content.Value()
	case spec.kind == draft.FieldSelect:
		return spec.options[f.choice[name]]
	default:
		return f.inputs[name].Value()
	}
}

// Values returns the submitted field values. File fields are excluded.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.specs))
	for _, spec := range f.specs {
		if spec.kind == draft.FieldFile {
			continue
		}
		out[spec.name] = strings.TrimSpace(f.Value(spec.name))
	}
	return out
}

// Attachments returns the attachment paths typed into the form.
func (f *Form) Attachments() []string {
	var out []string
	for _, p := range strings.Split(f.Value("attachments"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FocusField moves focus to the named input.
func (f *Form) FocusField(name string) {
	for i, spec := range f.specs {
		if spec.name == name {
			f.blurCurrent()
			f.focus = i
			f.focusCurrent()
			return
		}
	}
}

// Focused returns the name of the focused input.
func (f *Form) Focused() string {
	return f.specs[f.focus].name
}

func (f *Form) spec(name string) (fieldSpec, bool) {
	for _, s := range f.specs {
		if s.name == name {
			return s, true
		}
	}
	return fieldSpec{}, false
}

func (f *Form) blurCurrent() {
	spec := f.specs[f.focus]
	switch {
	case spec.multiline:
		f.content.Blur()
	case spec.kind != draft.FieldSelect:
		f.inputs[spec.name].Blur()
	}
}

func (f *Form) focusCurrent() tea.Cmd {
	spec := f.specs[f.focus]
	switch {
	case spec.multiline:
		return f.content.Focus()
	case spec.kind != draft.FieldSelect:
		return f.inputs[spec.name].Focus()
	}
	return nil
}

// Update handles a key press. It returns the name of the field whose value
// changed, or "".
func (f *Form) Update(msg tea.KeyMsg, keys KeyMap) (string, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.NextField):
		f.blurCurrent()
		f.focus = (f.focus + 1) % len(f.specs)
		return "", f.focusCurrent()
	case key.Matches(msg, keys.PrevField):
		f.blurCurrent()
		f.focus = (f.focus - 1 + len(f.specs)) % len(f.specs)
		return "", f.focusCurrent()
	}

	spec := f.specs[f.focus]
	before := f.Value(spec.name)
	var cmd tea.Cmd

	switch {
	case spec.kind == draft.FieldSelect:
		n := len(spec.options)
		switch {
		case key.Matches(msg, keys.NextOption), msg.String() == " ":
			f.choice[spec.name] = (f.choice[spec.name] + 1) % n
		case key.Matches(msg, keys.PrevOption):
			f.choice[spec.name] = (f.choice[spec.name] - 1 + n) % n
		}
	case spec.multiline:
		f.content, cmd = f.content.Update(msg)
	default:
		var ti textinput.Model
		ti, cmd = f.inputs[spec.name].Update(msg)
		f.inputs[spec.name] = &ti
	}

	if f.Value(spec.name) != before {
		return spec.name, cmd
	}
	return "", cmd
}

// Title names the form.
func (f *Form) Title() string {
	if f.editID > 0 {
		return fmt.Sprintf("Edit correspondence #%d", f.editID)
	}
	return "New correspondence"
}

// View renders the form.
func (f *Form) View(theme *styles.Theme) string {
	lines := []string{theme.FormTitle.Render(f.Title())}

	for i, spec := range f.specs {
		label := spec.label
		if spec.required {
			label += " *"
		}
		labelStyle := theme.FormLabel
		if i == f.focus {
			labelStyle = theme.FormLabelFocus
		}

		var control string
		switch {
		case spec.multiline:
			control = f.content.View()
		case spec.kind == draft.FieldSelect:
			control = renderSelect(theme, spec, f.choice[spec.name], i == f.focus)
		default:
			control = f.inputs[spec.name].View()
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), control))
	}

	lines = append(lines, "", theme.FormHint.Render("Changes are saved as a draft while you type."))
	return strings.Join(lines, "\n")
}

func renderSelect(theme *styles.Theme, spec fieldSpec, chosen int, focused bool) string {
	parts := make([]string, 0, len(spec.options))
	for i, opt := range spec.options {
		text := opt
		if text == "" {
			text = "(choose)"
		}
		if i == chosen {
			text = "[" + text + "]"
			if focused {
				text = theme.FormLabelFocus.UnsetWidth().Render(text)
			}
		} else {
			text = theme.Muted.Render(" " + text + " ")
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}
