// correspond - A terminal client for the correspondence register.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/correspond-tui/internal/api"
	"github.com/jeranaias/correspond-tui/internal/cli"
	"github.com/jeranaias/correspond-tui/internal/clock"
	"github.com/jeranaias/correspond-tui/internal/config"
	"github.com/jeranaias/correspond-tui/internal/push"
	"github.com/jeranaias/correspond-tui/internal/session"
	"github.com/jeranaias/correspond-tui/internal/storage"
	"github.com/jeranaias/correspond-tui/internal/ui/app"
	"github.com/jeranaias/correspond-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run routes a parsed command line to its handler.
func run(args cli.Args) error {
	switch args.Command {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return nil
	case cli.CmdVersion:
		return cli.PrintVersion(os.Stdout, args.JSON)
	}

	cfg, path, err := cli.LoadConfig(args)
	if cfg == nil {
		return err
	}
	if err != nil {
		// A broken config file still yields usable defaults.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx := context.Background()
	env := cli.StdEnv()

	switch args.Command {
	case cli.CmdDrafts:
		dataDir, err := cfg.ResolveDataDir()
		if err != nil {
			return err
		}
		kv, err := storage.Open(cfg.Storage.Backend, dataDir)
		if err != nil {
			return fmt.Errorf("open draft storage: %w", err)
		}
		defer kv.Close()
		return cli.HandleDrafts(ctx, env, kv, args)

	case cli.CmdAttachment:
		client := api.NewClient(cfg.Server.URL, cfg.ServerTimeout())
		return cli.HandleAttachment(ctx, env, client, args)

	case cli.CmdConfig:
		return cli.HandleConfig(env, cfg, path, args)

	default:
		return runTUI(cfg, path)
	}
}

// =============================================================================
// TUI
// =============================================================================

// runTUI starts the interactive list and blocks until the user quits.
func runTUI(cfg *config.Config, configPath string) error {
	if err := cli.RequireTerminal("the interactive list"); err != nil {
		return err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The alternate screen owns stdout, so log lines go to a file.
	logFile, err := os.OpenFile(filepath.Join(dataDir, "correspond.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	kv := storage.OpenOrMemory(cfg.Storage.Backend, dataDir)
	defer kv.Close()

	sess := session.New(cfg.User.ID, cfg.User.Room, cfg.Push.Transport)
	transport, err := push.New(push.Options{
		Kind:              cfg.Push.Transport,
		ServerURL:         cfg.Server.URL,
		NATSURL:           cfg.Push.NATSURL,
		Subject:           cfg.Push.Subject,
		Join:              sess.JoinPayload(),
		PingInterval:      cfg.PingInterval(),
		ReconnectInterval: cfg.ReconnectInterval(),
	})
	if err != nil {
		return fmt.Errorf("push transport: %w", err)
	}
	defer transport.Close()

	log.Printf("STARTUP | version=%s session=%s user=%s room=%s transport=%s server=%s",
		Version, sess.ID(), sess.UserID(), sess.Room(), sess.Transport(), cfg.Server.URL)

	lipgloss.SetColorProfile(cli.GetColorProfile())

	bridge := app.NewBridge()
	m := app.New(app.Deps{
		Config:  cfg,
		Clock:   clock.OnLoop(clock.Real(), bridge.Post),
		Store:   kv,
		API:     api.NewClient(cfg.Server.URL, cfg.ServerTimeout()),
		Session: sess,
		Theme:   styles.NewTheme(cfg.UI.Theme),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	bridge.Attach(p.Send)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := transport.Run(ctx, bridge); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, push.ErrTransportClosed) {
			log.Printf("PUSH_STOPPED | error=%v", err)
		}
	}()

	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, clock.Real(), configPath, bridge.ConfigChanged); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("CONFIG_WATCH_STOPPED | path=%s error=%v", configPath, err)
			}
		}()
	}

	start := time.Now()
	_, err = p.Run()
	log.Printf("SHUTDOWN | uptime=%s", time.Since(start).Round(time.Second))
	if err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
