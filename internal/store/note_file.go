package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// decodeNoteFile reads the notes document at path. A missing or blank file
// decodes to an empty document.
func decodeNoteFile(path string) (*noteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newNoteFile(), nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return newNoteFile(), nil
	}
	file := newNoteFile()
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if file.Version > noteSchemaVersion {
		return nil, fmt.Errorf("notes file version %d is newer than supported version %d", file.Version, noteSchemaVersion)
	}
	return file, nil
}

// encodeNoteFile replaces the document at path through a synced temp file in
// the same directory, so readers see either the old or the new notes.
func encodeNoteFile(path string, file *noteFile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".notes-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
