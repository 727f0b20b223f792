package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
)

const (
	requestTimeout  = 5 * time.Second
	watchRetryDelay = 3 * time.Second
)

func fetchNotesCmd(backend NotesBackend, player string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		notes, err := backend.List(ctx, player)
		return notesMsg{seq: seq, notes: notes, err: err}
	}
}

func createNoteCmd(backend NotesBackend, player, message, author string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		note, err := backend.Create(ctx, player, message, author)
		return noteCreatedMsg{note: note, err: err}
	}
}

func updateNoteCmd(backend NotesBackend, id int, message, author string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		note, err := backend.Update(ctx, id, message, author)
		return noteUpdatedMsg{id: id, note: note, err: err}
	}
}

func deleteNoteCmd(backend NotesBackend, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return noteDeletedMsg{id: id, err: backend.Delete(ctx, id)}
	}
}

// openWatchCmd is not bound to a timeout; the stream lives until its cancel
// func is called on teardown.
func openWatchCmd(backend NotesBackend, player string) tea.Cmd {
	return func() tea.Msg {
		events, cancel, err := backend.Watch(context.Background(), player)
		return watchOpenedMsg{events: events, cancel: cancel, err: err}
	}
}

func watchRetryCmd() tea.Cmd {
	return tea.Tick(watchRetryDelay, func(time.Time) tea.Msg { return watchRetryMsg{} })
}

func copyNoteCmd(id int, text string) tea.Cmd {
	return func() tea.Msg {
		method, err := copyTextToClipboard(text)
		return noteCopiedMsg{id: id, method: method, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
