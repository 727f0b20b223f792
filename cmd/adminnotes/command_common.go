package main

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"adminnotes/internal/client"
	"adminnotes/internal/config"
)

const (
	version        = "dev"
	requestTimeout = 5 * time.Second
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (w commandWiring) clientWithConfig() (notesAPI, config.Config, error) {
	cfg, err := w.loadConfig()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	api, err := w.newClient(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return api, cfg, nil
}

func parseNoteID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", raw)
	}
	return id, nil
}

func joinMessage(args []string) (string, error) {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return "", errors.New("requires a message")
	}
	return message, nil
}

// describeClientError turns daemon API errors into short CLI messages.
func describeClientError(err error) error {
	if apiErr := client.AsAPIError(err); apiErr != nil {
		return fmt.Errorf("daemon: %s", apiErr.Message)
	}
	return err
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return version
}

func buildCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "none"
	}
	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if revision == "" {
		return "none"
	}
	if modified == "true" {
		return revision + "-dirty"
	}
	return revision
}
