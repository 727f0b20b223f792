package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"adminnotes/internal/types"
)

func TestFileNoteStoreListEmpty(t *testing.T) {
	store := NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"))
	notes, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected empty notes, got %d", len(notes))
	}
}

func TestFileNoteStoreContract(t *testing.T) {
	store := NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"))
	runNoteStoreContract(t, store)
}

func TestBboltNoteStoreContract(t *testing.T) {
	store, err := NewBboltNoteStore(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	runNoteStoreContract(t, store)
}

func TestFileNoteStoreNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	store := NewFileNoteStore(path)
	first, err := store.Create(ctx, &types.Note{Player: "p1", Message: "one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second, err := store.Create(ctx, &types.Note{Player: "p1", Message: "two"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected id to advance past %d, got %d", first.ID, second.ID)
	}

	reopened := NewFileNoteStore(path)
	third, err := reopened.Create(ctx, &types.Note{Player: "p1", Message: "three"})
	if err != nil {
		t.Fatalf("create after reopen: %v", err)
	}
	if third.ID <= second.ID {
		t.Fatalf("expected persisted counter, got %d after %d", third.ID, second.ID)
	}
}

func TestFileNoteStoreRecoversCounterFromNotes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	content := `{"version":1,"notes":[{"id":41,"player":"p1","message":"hand edited"}]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileNoteStore(path)
	created, err := store.Create(ctx, &types.Note{Player: "p1", Message: "next"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 42 {
		t.Fatalf("expected id 42, got %d", created.ID)
	}
}

func TestFileNoteStoreSkipsNullEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	content := `{"version":1,"next_id":2,"notes":[null,{"id":2,"player":"p1","message":"kept"}]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileNoteStore(path)

	if _, ok, err := store.Get(ctx, 2); err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	updated, err := store.Update(ctx, &types.Note{ID: 2, Message: "edited", LastEditedBy: "mod"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Message != "edited" {
		t.Fatalf("expected edited message, got %q", updated.Message)
	}
	if err := store.Delete(ctx, 3); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	notes, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no notes, got %d", len(notes))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Fatalf("expected null entries to be dropped on save, got %s", data)
	}
}

func TestFileNoteStoreTreatsBlankFileAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	notes, err := NewFileNoteStore(path).List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no notes, got %d", len(notes))
	}
}

func TestFileNoteStoreRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte(`{"version":99,"notes":[]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileNoteStore(path).List(context.Background(), ""); err == nil {
		t.Fatalf("expected error for newer schema")
	}
}

func TestFileNoteStoreWritesPrivateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	store := NewFileNoteStore(path)
	if _, err := store.Create(context.Background(), &types.Note{Player: "p1", Message: "m"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestBboltNoteStoreReopenKeepsNotes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")
	store, err := NewBboltNoteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	created, err := store.Create(ctx, &types.Note{Player: "p1", Message: "persisted"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewBboltNoteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("expected note after reopen, ok=%v err=%v", ok, err)
	}
	if got.Message != "persisted" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestOpenNoteStoreBackends(t *testing.T) {
	dir := t.TempDir()
	fileStore, err := OpenNoteStore("file", filepath.Join(dir, "notes.json"))
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := fileStore.(*FileNoteStore); !ok {
		t.Fatalf("expected file store, got %T", fileStore)
	}
	boltStore, err := OpenNoteStore("", filepath.Join(dir, "notes.db"))
	if err != nil {
		t.Fatalf("open bbolt: %v", err)
	}
	defer boltStore.Close()
	if _, ok := boltStore.(*BboltNoteStore); !ok {
		t.Fatalf("expected bbolt store, got %T", boltStore)
	}
	if _, err := OpenNoteStore("sqlite", filepath.Join(dir, "x")); err == nil {
		t.Fatalf("expected unsupported backend error")
	}
	if _, err := OpenNoteStore("file", " "); err == nil {
		t.Fatalf("expected missing path error")
	}
}

func runNoteStoreContract(t *testing.T, store NoteStore) {
	t.Helper()
	ctx := context.Background()

	first, err := store.Create(ctx, &types.Note{Player: "p1", Message: "griefing at spawn", CreatedBy: "mod-a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID <= 0 {
		t.Fatalf("expected positive id, got %d", first.ID)
	}
	if first.CreatedAt.IsZero() || first.LastEditedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
	if first.LastEditedBy != "mod-a" {
		t.Fatalf("expected editor to default to author, got %q", first.LastEditedBy)
	}
	second, err := store.Create(ctx, &types.Note{Player: "p2", Message: "other player"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	third, err := store.Create(ctx, &types.Note{Player: "p1", Message: "warned"})
	if err != nil {
		t.Fatalf("create third: %v", err)
	}
	if !(first.ID < second.ID && second.ID < third.ID) {
		t.Fatalf("expected increasing ids, got %d %d %d", first.ID, second.ID, third.ID)
	}

	byPlayer, err := store.List(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byPlayer) != 2 || byPlayer[0].ID != first.ID || byPlayer[1].ID != third.ID {
		t.Fatalf("unexpected player listing: %#v", byPlayer)
	}
	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(all))
	}

	got, ok, err := store.Get(ctx, first.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	got.Message = "mutated"
	again, _, _ := store.Get(ctx, first.ID)
	if again.Message != "griefing at spawn" {
		t.Fatalf("expected clone semantics, got %q", again.Message)
	}

	time.Sleep(5 * time.Millisecond)
	updated, err := store.Update(ctx, &types.Note{ID: first.ID, Message: "griefing, banned 1d", LastEditedBy: "mod-b", Player: "ignored"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Player != "p1" || updated.CreatedBy != "mod-a" {
		t.Fatalf("expected identity fields to be kept, got %#v", updated)
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at unchanged")
	}
	if !updated.LastEditedAt.After(first.LastEditedAt) || updated.LastEditedBy != "mod-b" {
		t.Fatalf("expected edit metadata to advance, got %#v", updated)
	}
	if !updated.Edited() {
		t.Fatalf("expected note to report edited")
	}

	if _, err := store.Update(ctx, &types.Note{ID: 9999, Message: "x"}); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound on update, got %v", err)
	}
	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, first.ID); ok {
		t.Fatalf("expected note to be deleted")
	}
	if err := store.Delete(ctx, first.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}
