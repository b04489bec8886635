// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
//
// The pattern:
//  1. If --confirm is present, proceed without prompting
//  2. If --json is set, require --confirm (no interactive prompts in JSON mode)
//  3. If stdin is not a terminal, require --confirm
//  4. Otherwise, prompt and wait for y/yes

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions.
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool // stdin is a terminal
}

// ConfirmationOptions carries the flags that bypass or forbid prompting.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --confirm was passed
	ConfirmFlag bool
	// JSONMode indicates --json was passed
	JSONMode bool
}

// Confirm asks whether to perform action. details are printed first, in
// order, as "label: value" lines.
func (p Prompter) Confirm(action string, details [][2]string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}
	if opts.JSONMode {
		return false, fmt.Errorf("confirmation required: use --confirm flag for destructive actions in JSON mode")
	}
	if !p.Interactive {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --confirm flag")
	}

	fmt.Fprintln(p.Out)
	for _, d := range details {
		fmt.Fprintf(p.Out, "  %s: %s\n", d[0], d[1])
	}
	fmt.Fprintf(p.Out, "Are you sure you want to %s? [y/N]: ", action)

	input, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}
