package app

import (
	"time"

	"adminnotes/internal/types"
)

type notesMsg struct {
	seq   int
	notes []*types.Note
	err   error
}

type noteCreatedMsg struct {
	note *types.Note
	err  error
}

type noteUpdatedMsg struct {
	id   int
	note *types.Note
	err  error
}

type noteDeletedMsg struct {
	id  int
	err error
}

type noteCopiedMsg struct {
	id     int
	method clipboardMethod
	err    error
}

type watchOpenedMsg struct {
	events <-chan types.NoteEvent
	cancel func()
	err    error
}

type watchRetryMsg struct{}

type tickMsg time.Time
