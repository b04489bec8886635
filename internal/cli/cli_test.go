// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/correspond-tui/internal/api"
	"github.com/jeranaias/correspond-tui/internal/config"
	"github.com/jeranaias/correspond-tui/internal/storage"
)

// =============================================================================
// PARSE
// =============================================================================

func TestParse_DefaultsToTUI(t *testing.T) {
	args, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, CmdTUI, args.Command)
	assert.Empty(t, args.Rest)
}

func TestParse_GlobalFlagsAnywhere(t *testing.T) {
	args, err := Parse([]string{"--server", "http://mail:5000", "drafts", "show", "k", "--json", "-u=alice", "--config=/tmp/c.toml"})
	require.NoError(t, err)

	assert.Equal(t, CmdDrafts, args.Command)
	assert.Equal(t, "http://mail:5000", args.ServerURL)
	assert.Equal(t, "alice", args.UserID)
	assert.Equal(t, "/tmp/c.toml", args.ConfigPath)
	assert.True(t, args.JSON)
	assert.Equal(t, []string{"show", "k"}, args.Rest)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]string{"frobnicate"})
	assert.Error(t, err)

	_, err = Parse([]string{"--server"})
	assert.Error(t, err)

	_, err = Parse([]string{"--config", "--json"})
	assert.Error(t, err)
}

func TestParse_HelpAndVersion(t *testing.T) {
	args, err := Parse([]string{"drafts", "-h"})
	require.NoError(t, err)
	assert.Equal(t, CmdHelp, args.Command)

	args, err = Parse([]string{"--version"})
	require.NoError(t, err)
	assert.Equal(t, CmdVersion, args.Command)

	args, err = Parse([]string{"attachments", "delete", "3"})
	require.NoError(t, err)
	assert.Equal(t, CmdAttachment, args.Command)
	assert.Equal(t, "attachment", args.Command.String())
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"set", "list.limit", "20", "--force", "--name=x", "--", "-literal"}, "force")

	assert.Equal(t, "set", p.Subcommand())
	assert.Equal(t, "list.limit", p.Positional(1))
	assert.Equal(t, "20", p.Positional(2))
	assert.Equal(t, "-literal", p.Positional(3))
	assert.Equal(t, "", p.Positional(9))
	assert.Equal(t, 4, p.PositionalCount())
	assert.True(t, p.BoolFlag("force"))
	assert.Equal(t, "x", p.Flag("--name"))
	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
	assert.Equal(t, []string{"20", "-literal"}, p.PositionalFrom(2))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42", "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := ParseID(bad, "id")
		assert.Error(t, err, bad)
	}
}

func TestPrintVersion_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintVersion(&buf, true))

	var resp struct {
		Success bool        `json:"success"`
		Data    VersionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, Version, resp.Data.Version)
}

// =============================================================================
// CONFIRMATION
// =============================================================================

func TestPrompter_Confirm(t *testing.T) {
	var out bytes.Buffer
	p := Prompter{In: strings.NewReader("yes\n"), Out: &out, Interactive: true}

	ok, err := p.Confirm("delete it", [][2]string{{"Attachment", "7"}}, ConfirmationOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Attachment: 7")

	p.In = strings.NewReader("\n")
	ok, err = p.Confirm("delete it", nil, ConfirmationOptions{})
	require.NoError(t, err)
	assert.False(t, ok, "empty answer means no")
}

func TestPrompter_Confirm_NonInteractive(t *testing.T) {
	p := Prompter{In: strings.NewReader("y\n"), Out: &bytes.Buffer{}}

	_, err := p.Confirm("delete it", nil, ConfirmationOptions{})
	assert.Error(t, err)

	_, err = p.Confirm("delete it", nil, ConfirmationOptions{JSONMode: true})
	assert.Error(t, err)

	ok, err := p.Confirm("delete it", nil, ConfirmationOptions{ConfirmFlag: true})
	require.NoError(t, err)
	assert.True(t, ok)
}

// =============================================================================
// DRAFTS
// =============================================================================

func testEnv(answer string) (Env, *bytes.Buffer) {
	var out bytes.Buffer
	return Env{
		Out:    &out,
		Prompt: Prompter{In: strings.NewReader(answer), Out: &bytes.Buffer{}, Interactive: true},
	}, &out
}

func seedDrafts(t *testing.T) storage.Store {
	t.Helper()
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "autosave-/correspondence/new", []byte(`{"subject":"Budget\nreview","type":"incoming"}`)))
	require.NoError(t, kv.Set(ctx, "autosave-/correspondence/4/edit", []byte(`not json`)))
	require.NoError(t, kv.Set(ctx, "theme", []byte(`dark`)))
	return kv
}

func TestHandleDrafts_List(t *testing.T) {
	kv := seedDrafts(t)
	env, out := testEnv("")

	require.NoError(t, HandleDrafts(context.Background(), env, kv, Args{Rest: []string{"list"}}))

	text := out.String()
	assert.Contains(t, text, "autosave-/correspondence/new  (2 fields)")
	assert.Contains(t, text, "autosave-/correspondence/4/edit  (unreadable")
	assert.NotContains(t, text, "theme")
}

func TestHandleDrafts_ListByPath(t *testing.T) {
	kv := seedDrafts(t)
	env, out := testEnv("")

	require.NoError(t, HandleDrafts(context.Background(), env, kv, Args{Rest: []string{"list", "--path", "/correspondence/4"}}))

	text := out.String()
	assert.Contains(t, text, "autosave-/correspondence/4/edit")
	assert.NotContains(t, text, "autosave-/correspondence/new")
}

func TestHandleDrafts_ListJSON(t *testing.T) {
	kv := seedDrafts(t)
	env, out := testEnv("")

	require.NoError(t, HandleDrafts(context.Background(), env, kv, Args{JSON: true}))

	var resp struct {
		Success bool           `json:"success"`
		Data    []DraftSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
}

func TestHandleDrafts_ShowAcceptsPagePath(t *testing.T) {
	kv := seedDrafts(t)
	env, out := testEnv("")

	require.NoError(t, HandleDrafts(context.Background(), env, kv, Args{Rest: []string{"show", "/correspondence/new"}}))
	assert.Contains(t, out.String(), "subject:")
	assert.Contains(t, out.String(), "Budget review")

	err := HandleDrafts(context.Background(), env, kv, Args{Rest: []string{"show", "/nowhere"}})
	assert.Error(t, err)
}

func TestHandleDrafts_Clear(t *testing.T) {
	kv := seedDrafts(t)
	ctx := context.Background()

	env, out := testEnv("n\n")
	require.NoError(t, HandleDrafts(ctx, env, kv, Args{Rest: []string{"clear", "/correspondence/new"}}))
	assert.Contains(t, out.String(), "Cancelled")
	v, _ := kv.Get(ctx, "autosave-/correspondence/new")
	assert.NotNil(t, v)

	env, _ = testEnv("")
	require.NoError(t, HandleDrafts(ctx, env, kv, Args{Confirm: true, Rest: []string{"clear", "autosave-/correspondence/new"}}))
	v, _ = kv.Get(ctx, "autosave-/correspondence/new")
	assert.Nil(t, v)
}

func TestHandleDrafts_UnknownSubcommand(t *testing.T) {
	env, _ := testEnv("")
	assert.Error(t, HandleDrafts(context.Background(), env, storage.NewMemoryStore(), Args{Rest: []string{"purge"}}))
}

// =============================================================================
// ATTACHMENT
// =============================================================================

type fakeDeleter struct {
	ids []int64
	err error
}

func (f *fakeDeleter) DeleteAttachment(_ context.Context, id int64) error {
	f.ids = append(f.ids, id)
	return f.err
}

func TestHandleAttachment_Delete(t *testing.T) {
	d := &fakeDeleter{}
	env, out := testEnv("y\n")

	require.NoError(t, HandleAttachment(context.Background(), env, d, Args{Rest: []string{"delete", "12"}}))
	assert.Equal(t, []int64{12}, d.ids)
	assert.Contains(t, out.String(), "Attachment deleted successfully")
}

func TestHandleAttachment_DeclinedDoesNotCallServer(t *testing.T) {
	d := &fakeDeleter{}
	env, _ := testEnv("no\n")

	require.NoError(t, HandleAttachment(context.Background(), env, d, Args{Rest: []string{"delete", "12"}}))
	assert.Empty(t, d.ids)
}

func TestHandleAttachment_ServerErrorJSON(t *testing.T) {
	d := &fakeDeleter{err: errors.New("boom")}
	env, out := testEnv("")

	err := HandleAttachment(context.Background(), env, d, Args{JSON: true, Confirm: true, Rest: []string{"delete", "5"}})
	require.Error(t, err)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "boom")
}

func TestHandleAttachment_NotFound(t *testing.T) {
	d := &fakeDeleter{err: &api.StatusError{Op: "delete attachment", StatusCode: 404}}
	env, _ := testEnv("")

	err := HandleAttachment(context.Background(), env, d, Args{Confirm: true, Rest: []string{"delete", "77"}})
	require.Error(t, err)
	assert.Equal(t, "attachment 77 not found on the server", err.Error())
}

func TestHandleAttachment_BadID(t *testing.T) {
	d := &fakeDeleter{}
	env, _ := testEnv("")
	assert.Error(t, HandleAttachment(context.Background(), env, d, Args{Confirm: true, Rest: []string{"delete", "x"}}))
	assert.Error(t, HandleAttachment(context.Background(), env, d, Args{}))
	assert.Empty(t, d.ids)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestHandleConfig_GetSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	env, out := testEnv("")

	require.NoError(t, HandleConfig(env, cfg, path, Args{Rest: []string{"get", "push.transport"}}))
	assert.Equal(t, "websocket\n", out.String())

	require.NoError(t, HandleConfig(env, cfg, path, Args{Rest: []string{"set", "list.limit", "20"}}))
	assert.Equal(t, 20, cfg.List.Limit)

	_, err := os.Stat(path)
	require.NoError(t, err)
	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 20, loaded.List.Limit)
}

func TestHandleConfig_SetRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	env, _ := testEnv("")

	err := HandleConfig(env, cfg, path, Args{Rest: []string{"set", "push.transport", "carrier-pigeon"}})
	assert.Error(t, err)
	assert.Equal(t, "websocket", cfg.Push.Transport)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHandleConfig_PathAndKeys(t *testing.T) {
	env, out := testEnv("")
	require.NoError(t, HandleConfig(env, config.Default(), "/etc/c.toml", Args{Rest: []string{"path"}}))
	assert.Equal(t, "/etc/c.toml\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(env, config.Default(), "", Args{Rest: []string{"keys"}}))
	assert.Contains(t, out.String(), "drafts.debounce_ms")
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("CORRESPOND_SERVER_URL", "")
	t.Setenv("CORRESPOND_USER", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user]\nid = \"bob\"\n"), 0600))

	cfg, got, err := LoadConfig(Args{ConfigPath: path, ServerURL: "http://other:8080"})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "bob", cfg.User.ID)
	assert.Equal(t, "http://other:8080", cfg.Server.URL)
}
