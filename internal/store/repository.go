package store

import (
	"errors"
	"strings"
)

const (
	BackendFile  = "file"
	BackendBbolt = "bbolt"
)

// OpenNoteStore opens the note store for backend at path. An empty backend
// selects bbolt.
func OpenNoteStore(backend, path string) (NoteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("note store path is required")
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendBbolt:
		return NewBboltNoteStore(path)
	case BackendFile:
		return NewFileNoteStore(path), nil
	default:
		return nil, errors.New("unsupported note store backend: " + backend)
	}
}
