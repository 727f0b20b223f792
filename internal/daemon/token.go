package daemon

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenBytes = 32

// LoadOrCreateToken returns the token stored at tokenPath, generating and
// persisting a new one with 0600 permissions when none exists yet.
func LoadOrCreateToken(tokenPath string) (string, error) {
	token, err := readToken(tokenPath)
	switch {
	case err == nil && token != "":
		_ = os.Chmod(tokenPath, 0o600)
		return token, nil
	case err != nil && !os.IsNotExist(err):
		return "", fmt.Errorf("read token: %w", err)
	}

	token, err = generateToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(tokenPath), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(tokenPath, []byte(token+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write token: %w", err)
	}
	_ = os.Chmod(tokenPath, 0o600)
	return token, nil
}

func readToken(tokenPath string) (string, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
