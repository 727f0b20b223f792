package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"adminnotes/internal/client"
	"adminnotes/internal/config"
	"adminnotes/internal/daemon"
	"adminnotes/internal/store"
	"adminnotes/internal/types"
)

type testHarness struct {
	wiring commandWiring
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	api    *client.Client
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	notes := store.NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"))
	server := httptest.NewServer(daemon.New("", "secret", "test", notes, nil).Handler())
	t.Cleanup(server.Close)

	h := &testHarness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		api:    client.NewWithBaseURL(server.URL, "secret"),
	}
	cfg := config.Default()
	cfg.Moderator.Name = "mod"
	h.wiring = commandWiring{
		stdout:     h.stdout,
		stderr:     h.stderr,
		loadConfig: func() (config.Config, error) { return cfg, nil },
		newClient:  func(config.Config) (notesAPI, error) { return h.api, nil },
		runDaemon: func(context.Context, config.Config, daemonOptions) error {
			return errors.New("daemon not available in tests")
		},
		runUI:   func(config.Config, uiOptions) error { return errors.New("ui not available in tests") },
		version: "1.2.3",
		commit:  "abc",
		date:    "today",
	}
	return h
}

func (h *testHarness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	root := newRootCommand(h.wiring)
	root.SetArgs(args)
	return root.Execute()
}

func TestAddListEditDelete(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, h.run("add", "--player", "alice", "warned", "for", "spam"))
	assert.Equal(t, "note 1 added for alice\n", h.stdout.String())
	require.NoError(t, h.run("add", "-p", "bob", "other player"))

	require.NoError(t, h.run("list", "--player", "alice", "-o", "json"))
	var notes []*types.Note
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "warned for spam", notes[0].Message)
	assert.Equal(t, "mod", notes[0].CreatedBy)

	require.NoError(t, h.run("edit", "1", "warned", "twice", "--author", "lead"))
	assert.Equal(t, "note 1 saved\n", h.stdout.String())

	require.NoError(t, h.run("list", "-o", "yaml"))
	var all []types.Note
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "warned twice", all[0].Message)
	assert.Equal(t, "lead", all[0].LastEditedBy)

	require.NoError(t, h.run("delete", "1"))
	assert.Equal(t, "note 1 deleted\n", h.stdout.String())

	require.NoError(t, h.run("list", "--player", "alice"))
	assert.Equal(t, "No notes.\n", h.stdout.String())
}

func TestListTable(t *testing.T) {
	h := newTestHarness(t)
	require.NoError(t, h.run("add", "--player", "alice", "line one\nline two"))

	require.NoError(t, h.run("list"))
	out := h.stdout.String()
	assert.Contains(t, out, "PLAYER")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "line one …")
	assert.NotContains(t, out, "line two")
}

func TestCommandErrors(t *testing.T) {
	h := newTestHarness(t)

	err := h.run("add", "no player")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--player")

	err = h.run("edit", "abc", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid note id")

	err = h.run("delete", "42")
	require.Error(t, err)
	assert.Equal(t, "daemon: note not found", err.Error())

	err = h.run("list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	require.Error(t, h.run("ui"))
}

func TestVersionCommand(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, h.run("version"))
	assert.Contains(t, h.stdout.String(), "1.2.3")
	assert.Contains(t, h.stdout.String(), "abc")

	require.NoError(t, h.run("version", "--short"))
	assert.Contains(t, h.stdout.String(), "1.2.3")
}

func TestConfigCommandPrintsTOML(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, h.run("config"))
	assert.Contains(t, h.stdout.String(), "[moderator]")
	assert.Contains(t, h.stdout.String(), "name = 'mod'")

	require.NoError(t, h.run("config", "--defaults"))
	assert.NotContains(t, h.stdout.String(), "mod'")
	assert.Contains(t, h.stdout.String(), "127.0.0.1:7788")
}

func TestDaemonAndUIUseWiring(t *testing.T) {
	h := newTestHarness(t)
	var gotAddr string
	var gotUI uiOptions
	h.wiring.runDaemon = func(_ context.Context, cfg config.Config, _ daemonOptions) error {
		gotAddr = cfg.DaemonAddress()
		return nil
	}
	h.wiring.runUI = func(_ config.Config, opts uiOptions) error {
		gotUI = opts
		return nil
	}

	require.NoError(t, h.run("daemon", "--addr", "127.0.0.1:9999"))
	assert.Equal(t, "127.0.0.1:9999", gotAddr)

	require.NoError(t, h.run("ui", "--player", "alice", "--local"))
	assert.Equal(t, uiOptions{Player: "alice", Local: true}, gotUI)
}

func TestParseNoteID(t *testing.T) {
	id, err := parseNoteID(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	for _, raw := range []string{"0", "-1", "x", ""} {
		_, err := parseNoteID(raw)
		assert.Error(t, err, raw)
	}
}
