package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"adminnotes/internal/types"
)

var bucketNotes = []byte("notes")

type BboltNoteStore struct {
	db  *bolt.DB
	now func() time.Time
	mu  sync.Mutex
}

func NewBboltNoteStore(path string) (*BboltNoteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("note store db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketNotes)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltNoteStore{db: db, now: time.Now}, nil
}

func (s *BboltNoteStore) List(ctx context.Context, player string) ([]*types.Note, error) {
	out := make([]*types.Note, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		// Keys are big-endian IDs, so cursor order is ascending ID order.
		return b.ForEach(func(_, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if !matchesPlayer(&note, player) {
				return nil
			}
			out = append(out, types.CloneNote(&note))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BboltNoteStore) Get(ctx context.Context, id int) (*types.Note, bool, error) {
	var (
		note *types.Note
		ok   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		found, err := getNote(tx, id)
		if err != nil || found == nil {
			return err
		}
		note = found
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return note, ok, nil
}

func (s *BboltNoteStore) Create(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil {
		return nil, errors.New("note is required")
	}
	var created *types.Note
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		created = newNote(note, int(seq), s.now())
		return putNote(b, created)
	})
	if err != nil {
		return nil, err
	}
	return types.CloneNote(created), nil
}

func (s *BboltNoteStore) Update(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note == nil {
		return nil, errors.New("note is required")
	}
	var updated *types.Note
	err := s.db.Update(func(tx *bolt.Tx) error {
		existing, err := getNote(tx, note.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNoteNotFound
		}
		updated = editNote(existing, note, s.now())
		return putNote(tx.Bucket(bucketNotes), updated)
	})
	if err != nil {
		return nil, err
	}
	return types.CloneNote(updated), nil
}

func (s *BboltNoteStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		key := noteKey(id)
		if b.Get(key) == nil {
			return ErrNoteNotFound
		}
		return b.Delete(key)
	})
}

func (s *BboltNoteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func getNote(tx *bolt.Tx, id int) (*types.Note, error) {
	b := tx.Bucket(bucketNotes)
	if b == nil || id <= 0 {
		return nil, nil
	}
	raw := b.Get(noteKey(id))
	if len(raw) == 0 {
		return nil, nil
	}
	var note types.Note
	if err := json.Unmarshal(raw, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func putNote(b *bolt.Bucket, note *types.Note) error {
	raw, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return b.Put(noteKey(note.ID), raw)
}

func noteKey(id int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}
