// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"
)

// Env is where a command reads input and writes output.
type Env struct {
	Out    io.Writer
	Prompt Prompter
}

// StdEnv returns an Env bound to the process's standard streams.
func StdEnv() Env {
	return Env{
		Out: os.Stdout,
		Prompt: Prompter{
			In:          os.Stdin,
			Out:         os.Stderr,
			Interactive: IsTTY(),
		},
	}
}
