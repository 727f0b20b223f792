package app

import (
	"context"

	"adminnotes/internal/client"
	"adminnotes/internal/types"
)

// NotesBackend owns the authoritative notes the panel displays.
type NotesBackend interface {
	List(ctx context.Context, player string) ([]*types.Note, error)
	Create(ctx context.Context, player, message, author string) (*types.Note, error)
	Update(ctx context.Context, id int, message, author string) (*types.Note, error)
	Delete(ctx context.Context, id int) error
	Watch(ctx context.Context, player string) (<-chan types.NoteEvent, func(), error)
}

type clientBackend struct {
	client *client.Client
}

func NewClientBackend(c *client.Client) NotesBackend {
	return &clientBackend{client: c}
}

func (b *clientBackend) List(ctx context.Context, player string) ([]*types.Note, error) {
	return b.client.ListNotes(ctx, player)
}

func (b *clientBackend) Create(ctx context.Context, player, message, author string) (*types.Note, error) {
	return b.client.CreateNote(ctx, client.CreateNoteRequest{
		Player:  player,
		Message: message,
		Author:  author,
	})
}

func (b *clientBackend) Update(ctx context.Context, id int, message, author string) (*types.Note, error) {
	return b.client.UpdateNote(ctx, id, client.UpdateNoteRequest{
		Message: message,
		Author:  author,
	})
}

func (b *clientBackend) Delete(ctx context.Context, id int) error {
	return b.client.DeleteNote(ctx, id)
}

func (b *clientBackend) Watch(ctx context.Context, player string) (<-chan types.NoteEvent, func(), error) {
	return b.client.WatchNotes(ctx, player)
}
