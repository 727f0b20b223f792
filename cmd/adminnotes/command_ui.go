package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"adminnotes/internal/app"
	"adminnotes/internal/client"
	"adminnotes/internal/config"
	"adminnotes/internal/logging"
	"adminnotes/internal/store"
)

type uiOptions struct {
	Player string
	Local  bool
}

func addUI(topLevel *cobra.Command, w commandWiring) {
	opts := uiOptions{}
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the notes panel for a player.",
		Example: `
adminnotes ui --player alice
adminnotes ui --player alice --local
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Player) == "" {
				return errors.New("--player is required")
			}
			cfg, err := w.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return w.runUI(cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Player, "player", "p", "", "Player whose notes are shown.")
	cmd.Flags().BoolVar(&opts.Local, "local", false, "Open the note store directly instead of talking to the daemon.")
	topLevel.AddCommand(cmd)
}

// runUIProcess owns the terminal, so logs go to the UI log file.
func runUIProcess(cfg config.Config, opts uiOptions) error {
	logger := logging.Nop()
	if path, err := config.UILogPath(); err == nil {
		if fileLogger, closer, err := logging.OpenFile(path, logging.ParseLevel(cfg.LogLevel())); err == nil {
			defer closer.Close()
			logger = fileLogger
		}
	}

	backend, closeBackend, err := uiBackend(cfg, opts)
	if err != nil {
		return err
	}
	defer closeBackend()

	logger.Info("ui_start", logging.F("player", opts.Player), logging.F("local", opts.Local))
	return app.Run(backend, opts.Player,
		app.WithLogger(logger),
		app.WithAuthor(cfg.ModeratorName()),
		app.WithPermissions(cfg.NotePermissions()),
		app.WithMarkdown(cfg.MarkdownEnabled()),
	)
}

func uiBackend(cfg config.Config, opts uiOptions) (app.NotesBackend, func(), error) {
	if opts.Local {
		path, err := cfg.StoragePath()
		if err != nil {
			return nil, nil, err
		}
		notes, err := store.OpenNoteStore(cfg.StorageBackend(), path)
		if err != nil {
			return nil, nil, fmt.Errorf("open note store (is the daemon holding it?): %w", err)
		}
		backend := app.NewLocalBackend(notes, path)
		return backend, func() { _ = backend.Close() }, nil
	}
	c, err := client.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := requestContext()
	defer cancel()
	if _, err := c.Health(ctx); err != nil {
		return nil, nil, fmt.Errorf("daemon not reachable at %s (start it with `adminnotes daemon` or use --local): %w", c.BaseURL(), err)
	}
	return app.NewClientBackend(c), func() {}, nil
}

