// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/correspond-tui/internal/model"
)

// FieldError names the first form field that failed validation.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Notice is the text shown to the user.
func (e *FieldError) Notice() string {
	return fmt.Sprintf("Please fill in %s correctly", e.Label)
}

var validStatuses = map[string]bool{
	model.StatusPending:   true,
	model.StatusProcessed: true,
	model.StatusArchived:  true,
}

// ValidateForm checks values in form order and returns the first failure,
// or nil.
func ValidateForm(values map[string]string) error {
	for _, spec := range formFields {
		v := strings.TrimSpace(values[spec.name])
		fail := func(msg string) error {
			return &FieldError{Field: spec.name, Label: spec.label, Message: msg}
		}

		if spec.required && v == "" {
			return fail("is required")
		}
		if v == "" {
			continue
		}

		switch spec.name {
		case "type":
			if !model.Direction(v).Valid() {
				return fail("must be incoming or outgoing")
			}
		case "priority":
			if !model.ValidPriority(v) {
				return fail("must be one of " + strings.Join(model.Priorities, ", "))
			}
		case "status":
			if !validStatuses[v] {
				return fail("must be pending, processed or archived")
			}
		case "date_received":
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return fail("must be a date in YYYY-MM-DD form")
			}
		}
	}
	return nil
}
