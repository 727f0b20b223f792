package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"adminnotes/internal/client"
	"adminnotes/internal/config"
	"adminnotes/internal/types"
)

// notesAPI is the part of the daemon client the one-shot commands need.
type notesAPI interface {
	ListNotes(ctx context.Context, player string) ([]*types.Note, error)
	CreateNote(ctx context.Context, req client.CreateNoteRequest) (*types.Note, error)
	UpdateNote(ctx context.Context, id int, req client.UpdateNoteRequest) (*types.Note, error)
	DeleteNote(ctx context.Context, id int) error
}

type clientFactory func(cfg config.Config) (notesAPI, error)

type commandWiring struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
	runDaemon  func(ctx context.Context, cfg config.Config, opts daemonOptions) error
	runUI      func(cfg config.Config, opts uiOptions) error
	version    string
	commit     string
	date       string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		newClient:  newDaemonClient,
		runDaemon: func(ctx context.Context, cfg config.Config, opts daemonOptions) error {
			return runDaemonProcess(ctx, cfg, opts, stderr)
		},
		runUI:   runUIProcess,
		version: buildVersion(),
		commit:  buildCommit(),
		date:    "unknown",
	}
}

func newDaemonClient(cfg config.Config) (notesAPI, error) {
	return client.New(cfg)
}

func newRootCommand(w commandWiring) *cobra.Command {
	root := &cobra.Command{
		Use:           "adminnotes",
		Short:         "Moderation notes for players: daemon, terminal UI and CLI.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(w.stdout)
	root.SetErr(w.stderr)

	addDaemon(root, w)
	addUI(root, w)
	addList(root, w)
	addAdd(root, w)
	addEdit(root, w)
	addDelete(root, w)
	addConfig(root, w)
	addVersion(root, w)
	return root
}
