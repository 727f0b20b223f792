package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"

	"adminnotes/internal/types"
)

const defaultDaemonAddress = "127.0.0.1:7788"

const (
	StorageBackendBbolt = "bbolt"
	StorageBackendFile  = "file"
)

func init() {
	// HOME may change between lookups (tests, sudo); never serve a stale value.
	homedir.DisableCache = true
}

type Config struct {
	Daemon      DaemonConfig      `toml:"daemon"`
	Logging     LoggingConfig     `toml:"logging"`
	Storage     StorageConfig     `toml:"storage"`
	Moderator   ModeratorConfig   `toml:"moderator"`
	Permissions PermissionsConfig `toml:"permissions"`
	UI          UIConfig          `toml:"ui"`
}

type DaemonConfig struct {
	Address string `toml:"address"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type ModeratorConfig struct {
	Name string `toml:"name"`
}

type PermissionsConfig struct {
	Create *bool `toml:"create"`
	Delete *bool `toml:"delete"`
	Edit   *bool `toml:"edit"`
}

type UIConfig struct {
	Markdown *bool `toml:"markdown"`
}

func Default() Config {
	return Config{
		Daemon:  DaemonConfig{Address: defaultDaemonAddress},
		Logging: LoggingConfig{Level: "info"},
		Storage: StorageConfig{Backend: StorageBackendBbolt},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) DaemonAddress() string {
	addr := strings.TrimSpace(c.Daemon.Address)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultDaemonAddress
	}
	return addr
}

func (c Config) DaemonBaseURL() string {
	return "http://" + c.DaemonAddress()
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) StorageBackend() string {
	switch backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend)); backend {
	case "":
		return StorageBackendBbolt
	default:
		return backend
	}
}

// StoragePath resolves the note store location for the configured backend.
func (c Config) StoragePath() (string, error) {
	if strings.TrimSpace(c.Storage.Path) != "" {
		return resolveConfigPath(c.Storage.Path)
	}
	if c.StorageBackend() == StorageBackendFile {
		return NotesPath()
	}
	return DBPath()
}

// ModeratorName falls back to the login user when no name is configured.
func (c Config) ModeratorName() string {
	if name := strings.TrimSpace(c.Moderator.Name); name != "" {
		return name
	}
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if name := strings.TrimSpace(os.Getenv(key)); name != "" {
			return name
		}
	}
	return "admin"
}

// NotePermissions defaults every unset permission to granted.
func (c Config) NotePermissions() types.NotePermissions {
	return types.NotePermissions{
		Create: boolOr(c.Permissions.Create, true),
		Delete: boolOr(c.Permissions.Delete, true),
		Edit:   boolOr(c.Permissions.Edit, true),
	}
}

func (c Config) MarkdownEnabled() bool {
	return boolOr(c.UI.Markdown, true)
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~") {
		return homedir.Expand(path)
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
