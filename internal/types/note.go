package types

import "time"

type Note struct {
	ID           int       `json:"id" yaml:"id"`
	Player       string    `json:"player" yaml:"player"`
	Message      string    `json:"message" yaml:"message"`
	CreatedBy    string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	LastEditedBy string    `json:"last_edited_by,omitempty" yaml:"last_edited_by,omitempty"`
	LastEditedAt time.Time `json:"last_edited_at" yaml:"last_edited_at"`
}

// Edited reports whether the note was changed after it was created.
func (n *Note) Edited() bool {
	if n == nil || n.LastEditedAt.IsZero() {
		return false
	}
	return n.LastEditedAt.After(n.CreatedAt)
}

func CloneNote(note *Note) *Note {
	if note == nil {
		return nil
	}
	copy := *note
	return &copy
}

type NotePermissions struct {
	Create bool `json:"create" toml:"create"`
	Delete bool `json:"delete" toml:"delete"`
	Edit   bool `json:"edit" toml:"edit"`
}

type NoteEventType string

const (
	NoteEventCreated NoteEventType = "created"
	NoteEventUpdated NoteEventType = "updated"
	NoteEventDeleted NoteEventType = "deleted"
)

// NoteEvent is published whenever the authoritative note set of a player changes.
type NoteEvent struct {
	Type   NoteEventType `json:"type"`
	ID     int           `json:"id"`
	Player string        `json:"player"`
	At     time.Time     `json:"at"`
}
