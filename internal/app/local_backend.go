package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"adminnotes/internal/store"
	"adminnotes/internal/types"
)

// LocalBackend reads and writes the note store directly, without a daemon.
// Changes made by other processes are picked up by watching the store file.
type LocalBackend struct {
	notes     store.NoteStore
	watchPath string
	debounce  time.Duration
	now       func() time.Time
}

func NewLocalBackend(notes store.NoteStore, watchPath string) *LocalBackend {
	return &LocalBackend{
		notes:     notes,
		watchPath: strings.TrimSpace(watchPath),
		now:       time.Now,
	}
}

func (b *LocalBackend) List(ctx context.Context, player string) ([]*types.Note, error) {
	return b.notes.List(ctx, strings.TrimSpace(player))
}

func (b *LocalBackend) Create(ctx context.Context, player, message, author string) (*types.Note, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, errors.New("player is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is required")
	}
	return b.notes.Create(ctx, &types.Note{
		Player:    player,
		Message:   message,
		CreatedBy: strings.TrimSpace(author),
	})
}

func (b *LocalBackend) Update(ctx context.Context, id int, message, author string) (*types.Note, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is required")
	}
	return b.notes.Update(ctx, &types.Note{
		ID:           id,
		Message:      message,
		LastEditedBy: strings.TrimSpace(author),
	})
}

func (b *LocalBackend) Delete(ctx context.Context, id int) error {
	return b.notes.Delete(ctx, id)
}

// Watch turns file change signals into refetch events. The store file carries
// no per-note detail, so every event is an update for player with ID 0.
func (b *LocalBackend) Watch(ctx context.Context, player string) (<-chan types.NoteEvent, func(), error) {
	if b.watchPath == "" {
		return nil, nil, errors.New("watch path is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	signals, err := store.WatchFile(ctx, b.watchPath, b.debounce)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	out := make(chan types.NoteEvent, 1)
	go func() {
		defer close(out)
		for range signals {
			event := types.NoteEvent{Type: types.NoteEventUpdated, Player: player, At: b.now().UTC()}
			select {
			case out <- event:
			default:
			}
		}
	}()
	return out, cancel, nil
}

func (b *LocalBackend) Close() error {
	if b == nil || b.notes == nil {
		return nil
	}
	return b.notes.Close()
}
