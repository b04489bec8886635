// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Show and edit the configuration file.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/correspond-tui/internal/config"
)

// HandleConfig runs "config show|path|keys|get|set". path is the file that
// "set" writes to.
func HandleConfig(env Env, cfg *config.Config, path string, args Args) error {
	sub := args.Sub()
	switch sub.Subcommand() {
	case "", "show":
		return OutputJSON(env.Out, args.JSON, "config show", func() (interface{}, error) {
			if !args.JSON {
				fmt.Fprintln(env.Out, cfg.String())
			}
			return cfg, nil
		})

	case "path":
		return OutputJSON(env.Out, args.JSON, "config path", func() (interface{}, error) {
			if !args.JSON {
				fmt.Fprintln(env.Out, path)
			}
			return map[string]string{"path": path}, nil
		})

	case "keys":
		return OutputJSON(env.Out, args.JSON, "config keys", func() (interface{}, error) {
			keys := config.GetAllKeys()
			if !args.JSON {
				for _, k := range keys {
					fmt.Fprintln(env.Out, k)
				}
			}
			return keys, nil
		})

	case "get":
		key := sub.Positional(1)
		return OutputJSON(env.Out, args.JSON, "config get", func() (interface{}, error) {
			if key == "" {
				return nil, fmt.Errorf("usage: correspond config get <key>")
			}
			value, err := cfg.Get(key)
			if err != nil {
				return nil, err
			}
			if !args.JSON {
				fmt.Fprintln(env.Out, value)
			}
			return map[string]interface{}{"key": key, "value": value}, nil
		})

	case "set":
		key, value := sub.Positional(1), strings.Join(sub.PositionalFrom(2), " ")
		return OutputJSON(env.Out, args.JSON, "config set", func() (interface{}, error) {
			if key == "" || sub.PositionalCount() < 3 {
				return nil, fmt.Errorf("usage: correspond config set <key> <value>")
			}
			if path == "" {
				return nil, fmt.Errorf("no config path")
			}
			updated := cfg.Clone()
			if err := updated.Set(key, value); err != nil {
				return nil, err
			}
			if err := updated.Validate(); err != nil {
				return nil, err
			}
			if err := config.SaveTOML(updated, path); err != nil {
				return nil, err
			}
			*cfg = *updated
			if !args.JSON {
				fmt.Fprintf(env.Out, "%s = %s\n", key, value)
			}
			return map[string]string{"key": key, "value": value, "path": path}, nil
		})

	default:
		return fmt.Errorf("unknown config subcommand %q (use show, path, keys, get or set)", sub.Subcommand())
	}
}
