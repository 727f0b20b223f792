package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".adminnotes"

// DataDir returns the base data directory for adminnotes.
func DataDir() (string, error) {
	if dir := os.Getenv("ADMINNOTES_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

func dataPath(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}

// ConfigPath returns the path to config.toml.
func ConfigPath() (string, error) {
	return dataPath("config.toml")
}

// TokenPath returns the path to the daemon bearer token.
func TokenPath() (string, error) {
	return dataPath("token")
}

// NotesPath returns the default path of the JSON note store.
func NotesPath() (string, error) {
	return dataPath("notes.json")
}

// DBPath returns the default path of the bbolt note store.
func DBPath() (string, error) {
	return dataPath("notes.db")
}

func UILogPath() (string, error) {
	return dataPath("ui.log")
}

func DaemonLogPath() (string, error) {
	return dataPath("daemon.log")
}
