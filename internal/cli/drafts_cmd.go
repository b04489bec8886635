// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// drafts_cmd.go - Inspect and discard autosaved form drafts.

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/correspond-tui/internal/draft"
	"github.com/jeranaias/correspond-tui/internal/storage"
	"github.com/jeranaias/correspond-tui/internal/util"
)

// DraftSummary describes one stored draft in "drafts list".
type DraftSummary struct {
	Key    string `json:"key"`
	Fields int    `json:"fields"`
	Error  string `json:"error,omitempty"`
}

// DraftDetail is the payload of "drafts show".
type DraftDetail struct {
	Key    string            `json:"key"`
	Fields map[string]string `json:"fields"`
}

// HandleDrafts runs "drafts list|show|clear". "list --path <page>" only
// lists drafts under that page path.
func HandleDrafts(ctx context.Context, env Env, kv storage.Store, args Args) error {
	sub := args.Sub()
	switch sub.Subcommand() {
	case "", "list", "ls":
		return OutputJSON(env.Out, args.JSON, "drafts list", func() (interface{}, error) {
			return listDrafts(ctx, env, kv, draftKey(sub.FlagOrDefault("path", "/")), args.JSON)
		})
	case "show":
		key := draftKey(sub.Positional(1))
		return OutputJSON(env.Out, args.JSON, "drafts show", func() (interface{}, error) {
			return showDraft(ctx, env, kv, key, args.JSON)
		})
	case "clear", "rm", "delete":
		key := draftKey(sub.Positional(1))
		return OutputJSON(env.Out, args.JSON, "drafts clear", func() (interface{}, error) {
			return clearDraft(ctx, env, kv, key, args)
		})
	default:
		return fmt.Errorf("unknown drafts subcommand %q (use list, show or clear)", sub.Subcommand())
	}
}

// draftKey accepts either a full storage key or a bare page path.
func draftKey(arg string) string {
	if arg == "" || strings.HasPrefix(arg, draft.KeyPrefix) {
		return arg
	}
	return draft.KeyPrefix + arg
}

func listDrafts(ctx context.Context, env Env, kv storage.Store, prefix string, jsonMode bool) ([]DraftSummary, error) {
	keys, err := draft.Keys(ctx, kv)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	summaries := make([]DraftSummary, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		s := DraftSummary{Key: key}
		d, err := draft.Load(ctx, kv, key)
		if err != nil {
			s.Error = err.Error()
		} else {
			s.Fields = len(d)
		}
		summaries = append(summaries, s)
	}

	if jsonMode {
		return summaries, nil
	}
	if len(summaries) == 0 {
		fmt.Fprintln(env.Out, "No saved drafts.")
		return summaries, nil
	}
	for _, s := range summaries {
		if s.Error != "" {
			fmt.Fprintf(env.Out, "%s  (unreadable: %s)\n", s.Key, s.Error)
			continue
		}
		fmt.Fprintf(env.Out, "%s  (%d fields)\n", s.Key, s.Fields)
	}
	return summaries, nil
}

func showDraft(ctx context.Context, env Env, kv storage.Store, key string, jsonMode bool) (*DraftDetail, error) {
	if key == "" {
		return nil, fmt.Errorf("usage: correspond drafts show <key>")
	}
	d, err := draft.Load(ctx, kv, key)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("no draft stored under %s", key)
	}

	detail := &DraftDetail{Key: key, Fields: d}
	if jsonMode {
		return detail, nil
	}

	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)

	width, _ := GetTerminalSize()
	valueWidth := width - 18
	if valueWidth < 20 {
		valueWidth = 20
	}

	fmt.Fprintln(env.Out, key)
	for _, name := range names {
		fmt.Fprintf(env.Out, "  %-14s %s\n", name+":", util.TruncateWidth(util.SingleLine(d[name]), valueWidth))
	}
	return detail, nil
}

func clearDraft(ctx context.Context, env Env, kv storage.Store, key string, args Args) (map[string]string, error) {
	if key == "" {
		return nil, fmt.Errorf("usage: correspond drafts clear <key>")
	}
	ok, err := env.Prompt.Confirm("discard this draft",
		[][2]string{{"Draft", key}},
		ConfirmationOptions{ConfirmFlag: args.Confirm, JSONMode: args.JSON})
	if err != nil {
		return nil, err
	}
	if !ok {
		if !args.JSON {
			fmt.Fprintln(env.Out, "Cancelled.")
		}
		return map[string]string{"key": key, "status": "cancelled"}, nil
	}
	if err := draft.Remove(ctx, kv, key); err != nil {
		return nil, fmt.Errorf("clear draft: %w", err)
	}
	if !args.JSON {
		fmt.Fprintf(env.Out, "Cleared %s\n", key)
	}
	return map[string]string{"key": key, "status": "cleared"}, nil
}
