package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"adminnotes/internal/config"
	"adminnotes/internal/daemon"
	"adminnotes/internal/logging"
	"adminnotes/internal/store"
)

type daemonOptions struct {
	Address    string
	Background bool
}

func addDaemon(topLevel *cobra.Command, w commandWiring) {
	opts := daemonOptions{}
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the notes daemon.",
		Example: `
adminnotes daemon
adminnotes daemon --addr 127.0.0.1:9000 --background
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := w.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr := strings.TrimSpace(opts.Address); addr != "" {
				cfg.Daemon.Address = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.runDaemon(ctx, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Address, "addr", "", "Listen address, overrides [daemon] address.")
	cmd.Flags().BoolVar(&opts.Background, "background", false, "Log to the daemon log file instead of stderr.")
	topLevel.AddCommand(cmd)
}

func runDaemonProcess(ctx context.Context, cfg config.Config, opts daemonOptions, stderr io.Writer) error {
	logger, closeLog, err := daemonLogger(cfg, opts, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	tokenPath, err := config.TokenPath()
	if err != nil {
		return err
	}
	token, err := daemon.LoadOrCreateToken(tokenPath)
	if err != nil {
		return err
	}

	storePath, err := cfg.StoragePath()
	if err != nil {
		return err
	}
	notes, err := store.OpenNoteStore(cfg.StorageBackend(), storePath)
	if err != nil {
		return fmt.Errorf("open note store: %w", err)
	}
	defer notes.Close()
	logger.Info("note_store_open",
		logging.F("backend", cfg.StorageBackend()),
		logging.F("path", storePath),
	)

	d := daemon.New(cfg.DaemonAddress(), token, buildVersion(), notes, logger)
	return d.Run(ctx)
}

func daemonLogger(cfg config.Config, opts daemonOptions, stderr io.Writer) (logging.Logger, func(), error) {
	level := logging.ParseLevel(cfg.LogLevel())
	if !opts.Background {
		return logging.New(stderr, level), func() {}, nil
	}
	path, err := config.DaemonLogPath()
	if err != nil {
		return nil, nil, err
	}
	logger, closer, err := logging.OpenFile(path, level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closer.Close() }, nil
}
