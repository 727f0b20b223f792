package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"adminnotes/internal/types"
)

var ErrNoteNotFound = errors.New("note not found")

const noteSchemaVersion = 1

// NoteStore persists moderation notes. IDs are assigned by the store on Create,
// strictly increase and are never reused.
type NoteStore interface {
	List(ctx context.Context, player string) ([]*types.Note, error)
	Get(ctx context.Context, id int) (*types.Note, bool, error)
	Create(ctx context.Context, note *types.Note) (*types.Note, error)
	Update(ctx context.Context, note *types.Note) (*types.Note, error)
	Delete(ctx context.Context, id int) error
	Close() error
}

type FileNoteStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

type noteFile struct {
	Version int           `json:"version"`
	NextID  int           `json:"next_id"`
	Notes   []*types.Note `json:"notes"`
}

func NewFileNoteStore(path string) *FileNoteStore {
	return &FileNoteStore{path: path, now: time.Now}
}

func (s *FileNoteStore) Path() string {
	return s.path
}

func (s *FileNoteStore) List(ctx context.Context, player string) ([]*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*types.Note, 0, len(file.Notes))
	for _, note := range file.Notes {
		if !matchesPlayer(note, player) {
			continue
		}
		out = append(out, types.CloneNote(note))
	}
	sortNotes(out)
	return out, nil
}

func (s *FileNoteStore) Get(ctx context.Context, id int) (*types.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return nil, false, err
	}
	for _, note := range file.Notes {
		if note.ID == id {
			return types.CloneNote(note), true, nil
		}
	}
	return nil, false, nil
}

func (s *FileNoteStore) Create(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil {
		return nil, errors.New("note is required")
	}
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	file.NextID++
	created := newNote(note, file.NextID, s.now())
	file.Notes = append(file.Notes, created)
	if err := s.save(file); err != nil {
		return nil, err
	}
	return types.CloneNote(created), nil
}

func (s *FileNoteStore) Update(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil {
		return nil, errors.New("note is required")
	}
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	for i, existing := range file.Notes {
		if existing.ID != note.ID {
			continue
		}
		updated := editNote(existing, note, s.now())
		file.Notes[i] = updated
		if err := s.save(file); err != nil {
			return nil, err
		}
		return types.CloneNote(updated), nil
	}
	return nil, ErrNoteNotFound
}

func (s *FileNoteStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	filtered := file.Notes[:0]
	found := false
	for _, note := range file.Notes {
		if note.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, note)
	}
	if !found {
		return ErrNoteNotFound
	}
	file.Notes = filtered
	return s.save(file)
}

func (s *FileNoteStore) Close() error {
	return nil
}

func (s *FileNoteStore) load() (*noteFile, error) {
	file, err := decodeNoteFile(s.path)
	if err != nil {
		return nil, err
	}
	if file.Version == 0 {
		file.Version = noteSchemaVersion
	}
	// Files edited by hand may contain null entries or lack the counter; drop
	// the former and never hand out an ID in use.
	notes := make([]*types.Note, 0, len(file.Notes))
	for _, note := range file.Notes {
		if note == nil {
			continue
		}
		if note.ID > file.NextID {
			file.NextID = note.ID
		}
		notes = append(notes, note)
	}
	file.Notes = notes
	return file, nil
}

func (s *FileNoteStore) save(file *noteFile) error {
	file.Version = noteSchemaVersion
	return encodeNoteFile(s.path, file)
}

func newNoteFile() *noteFile {
	return &noteFile{Version: noteSchemaVersion, Notes: []*types.Note{}}
}

func newNote(note *types.Note, id int, now time.Time) *types.Note {
	created := types.CloneNote(note)
	created.ID = id
	created.Player = strings.TrimSpace(created.Player)
	created.CreatedBy = strings.TrimSpace(created.CreatedBy)
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now.UTC()
	}
	created.LastEditedBy = created.CreatedBy
	created.LastEditedAt = created.CreatedAt
	return created
}

// editNote applies the mutable fields of patch to existing. Identity and
// creation metadata always come from existing.
func editNote(existing, patch *types.Note, now time.Time) *types.Note {
	updated := types.CloneNote(existing)
	updated.Message = patch.Message
	updated.LastEditedBy = strings.TrimSpace(patch.LastEditedBy)
	if updated.LastEditedBy == "" {
		updated.LastEditedBy = existing.LastEditedBy
	}
	updated.LastEditedAt = now.UTC()
	return updated
}

func matchesPlayer(note *types.Note, player string) bool {
	if note == nil {
		return false
	}
	player = strings.TrimSpace(player)
	return player == "" || note.Player == player
}

func sortNotes(notes []*types.Note) {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID < notes[j].ID
	})
}
