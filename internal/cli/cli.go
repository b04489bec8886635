// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/jeranaias/correspond-tui/internal/config"
)

// Version information (set by main from build flags).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies what correspond was asked to do.
type Command int

const (
	CmdTUI Command = iota
	CmdDrafts
	CmdAttachment
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[string]Command{
	"tui":         CmdTUI,
	"drafts":      CmdDrafts,
	"draft":       CmdDrafts,
	"attachment":  CmdAttachment,
	"attachments": CmdAttachment,
	"config":      CmdConfig,
	"version":     CmdVersion,
	"help":        CmdHelp,
}

// String returns the name used on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdDrafts:
		return "drafts"
	case CmdAttachment:
		return "attachment"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Global flags
	ConfigPath string
	ServerURL  string
	UserID     string
	JSON       bool
	Confirm    bool

	// Rest holds the arguments after the command word.
	Rest []string
}

// Sub returns a parser over the arguments following the command word.
func (a Args) Sub() *ArgParser {
	return NewArgParser(a.Rest)
}

// Parse parses argv (without the program name). Global flags may appear
// anywhere. An empty command line starts the TUI.
func Parse(argv []string) (Args, error) {
	args := Args{Command: CmdTUI}
	var words []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, value, hasValue := strings.Cut(arg, "=")

		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "-") {
				return "", fmt.Errorf("flag %s requires a value", name)
			}
			i++
			return argv[i], nil
		}

		var err error
		switch name {
		case "--config", "-c":
			args.ConfigPath, err = takeValue()
		case "--server", "-s":
			args.ServerURL, err = takeValue()
		case "--user", "-u":
			args.UserID, err = takeValue()
		case "--json":
			args.JSON = true
		case "--confirm", "-y":
			args.Confirm = true
		case "--help", "-h":
			args.Command = CmdHelp
			return args, nil
		case "--version", "-V":
			args.Command = CmdVersion
			return args, nil
		default:
			words = append(words, arg)
		}
		if err != nil {
			return args, err
		}
	}

	if len(words) == 0 {
		return args, nil
	}
	cmd, ok := commandNames[strings.ToLower(words[0])]
	if !ok {
		return args, fmt.Errorf("unknown command %q (see 'correspond help')", words[0])
	}
	args.Command = cmd
	args.Rest = words[1:]
	return args, nil
}

// LoadConfig loads the configuration named by --config, or the default
// location, and applies --server and --user. The returned path is where
// "config set" writes.
func LoadConfig(args Args) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path = args.ConfigPath
		err  error
	)
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		path, _ = config.ConfigPathTOML()
		cfg, err = config.Load()
	}
	if cfg == nil {
		return nil, path, err
	}
	if args.ServerURL != "" {
		cfg.Server.URL = args.ServerURL
	}
	if args.UserID != "" {
		cfg.User.ID = args.UserID
	}
	return cfg, path, err
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `correspond - terminal client for the correspondence register

Usage:
  correspond [flags]                      Start the interactive list
  correspond drafts list [--path <page>]   List autosaved drafts
  correspond drafts show <key>            Print a draft's fields
  correspond drafts clear <key>           Delete a draft
  correspond attachment delete <id>       Delete an attachment on the server
  correspond config show|path|keys        Inspect configuration
  correspond config get <key>             Print one setting
  correspond config set <key> <value>     Change one setting
  correspond version                      Print version information
  correspond help                         Show this help

Flags:
  -c, --config <path>   Config file (default ~/.correspond/config.toml)
  -s, --server <url>    Server base URL
  -u, --user <id>       User id announced on the push channel
      --json            Machine-readable output
  -y, --confirm         Skip confirmation prompts
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(w)
	}
	_, err := fmt.Fprintf(w, "correspond %s (commit %s, built %s, %s)\n", Version, GitCommit, BuildDate, runtime.Version())
	return err
}
