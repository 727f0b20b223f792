package daemon

import (
	"context"
	"errors"
	"strings"
	"time"

	"adminnotes/internal/store"
	"adminnotes/internal/types"
)

const maxNoteLength = 2000

type NoteService struct {
	notes NoteStore
	hub   *noteHub
	now   func() time.Time
}

func NewNoteService(notes NoteStore, hub *noteHub) *NoteService {
	return &NoteService{notes: notes, hub: hub, now: time.Now}
}

func (s *NoteService) List(ctx context.Context, player string) ([]*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	notes, err := s.notes.List(ctx, strings.TrimSpace(player))
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id int) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	if id <= 0 {
		return nil, invalidError("note id is required", nil)
	}
	note, ok, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	if !ok || note == nil {
		return nil, notFoundError("note not found", store.ErrNoteNotFound)
	}
	return note, nil
}

func (s *NoteService) Create(ctx context.Context, player, message, author string) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, invalidError("player is required", nil)
	}
	message, err := normalizeMessage(message)
	if err != nil {
		return nil, err
	}
	created, err := s.notes.Create(ctx, &types.Note{
		Player:    player,
		Message:   message,
		CreatedBy: strings.TrimSpace(author),
	})
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	s.publish(types.NoteEventCreated, created.ID, created.Player)
	return created, nil
}

func (s *NoteService) Update(ctx context.Context, id int, message, author string) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	if id <= 0 {
		return nil, invalidError("note id is required", nil)
	}
	message, err := normalizeMessage(message)
	if err != nil {
		return nil, err
	}
	updated, err := s.notes.Update(ctx, &types.Note{
		ID:           id,
		Message:      message,
		LastEditedBy: strings.TrimSpace(author),
	})
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, notFoundError("note not found", err)
		}
		return nil, unavailableError(err.Error(), err)
	}
	s.publish(types.NoteEventUpdated, updated.ID, updated.Player)
	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, id int) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return notFoundError("note not found", err)
		}
		return unavailableError(err.Error(), err)
	}
	s.publish(types.NoteEventDeleted, id, existing.Player)
	return nil
}

// Subscribe streams change events for player. An empty player receives
// events for everyone.
func (s *NoteService) Subscribe(ctx context.Context, player string) (<-chan types.NoteEvent, func(), error) {
	if s.hub == nil {
		return nil, nil, unavailableError("event stream not available", nil)
	}
	ch, cancel := s.hub.Add(strings.TrimSpace(player))
	return ch, cancel, nil
}

func (s *NoteService) publish(kind types.NoteEventType, id int, player string) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(types.NoteEvent{Type: kind, ID: id, Player: player, At: s.now().UTC()})
}

func normalizeMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", invalidError("message is required", nil)
	}
	if len([]rune(message)) > maxNoteLength {
		return "", invalidError("message is too long", nil)
	}
	return message, nil
}
