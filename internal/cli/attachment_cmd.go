// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// attachment_cmd.go - Delete an attachment from the command line.

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jeranaias/correspond-tui/internal/api"
)

// AttachmentDeleter deletes attachments on the server. *api.Client
// satisfies it.
type AttachmentDeleter interface {
	DeleteAttachment(ctx context.Context, id int64) error
}

// AttachmentResult is the payload of "attachment delete".
type AttachmentResult struct {
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
	Status  string `json:"status"`
}

// HandleAttachment runs "attachment delete <id>".
func HandleAttachment(ctx context.Context, env Env, client AttachmentDeleter, args Args) error {
	sub := args.Sub()
	switch sub.Subcommand() {
	case "delete", "rm":
		return OutputJSON(env.Out, args.JSON, "attachment delete", func() (interface{}, error) {
			return deleteAttachment(ctx, env, client, sub.Positional(1), args)
		})
	case "":
		return fmt.Errorf("usage: correspond attachment delete <id>")
	default:
		return fmt.Errorf("unknown attachment subcommand %q", sub.Subcommand())
	}
}

func deleteAttachment(ctx context.Context, env Env, client AttachmentDeleter, rawID string, args Args) (*AttachmentResult, error) {
	id, err := ParseID(rawID, "attachment id")
	if err != nil {
		return nil, err
	}

	ok, err := env.Prompt.Confirm("delete this attachment",
		[][2]string{{"Attachment", strconv.FormatInt(id, 10)}},
		ConfirmationOptions{ConfirmFlag: args.Confirm, JSONMode: args.JSON})
	if err != nil {
		return nil, err
	}
	if !ok {
		if !args.JSON {
			fmt.Fprintln(env.Out, "Cancelled.")
		}
		return &AttachmentResult{ID: id, Status: "cancelled"}, nil
	}

	if err := client.DeleteAttachment(ctx, id); err != nil {
		if api.IsNotFound(err) {
			return nil, fmt.Errorf("attachment %d not found on the server", id)
		}
		return nil, fmt.Errorf("error deleting attachment: %w", err)
	}
	if !args.JSON {
		fmt.Fprintln(env.Out, "Attachment deleted successfully")
	}
	return &AttachmentResult{ID: id, Deleted: true, Status: "deleted"}, nil
}
