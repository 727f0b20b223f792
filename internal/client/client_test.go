package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminnotes/internal/config"
	"adminnotes/internal/types"
)

func TestListNotesSendsPlayerAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/notes", r.URL.Path)
		assert.Equal(t, "p 1", r.URL.Query().Get("player"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(NotesResponse{Notes: []*types.Note{{ID: 2, Player: "p 1", Message: "hi"}}})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL+"/", "secret")
	notes, err := c.ListNotes(context.Background(), "p 1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, 2, notes[0].ID)
}

func TestCreateUpdateDeleteNote(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var req CreateNoteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, CreateNoteRequest{Player: "p1", Message: "warned", Author: "mod"}, req)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(types.Note{ID: 7, Player: req.Player, Message: req.Message})
		case http.MethodPatch:
			var req UpdateNoteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(types.Note{ID: 7, Player: "p1", Message: req.Message, LastEditedBy: req.Author})
		case http.MethodDelete:
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		}
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "secret")
	ctx := context.Background()

	created, err := c.CreateNote(ctx, CreateNoteRequest{Player: "p1", Message: "warned", Author: "mod"})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)

	updated, err := c.UpdateNote(ctx, 7, UpdateNoteRequest{Message: "banned", Author: "mod2"})
	require.NoError(t, err)
	assert.Equal(t, "banned", updated.Message)
	assert.Equal(t, "mod2", updated.LastEditedBy)

	require.NoError(t, c.DeleteNote(ctx, 7))
	assert.Equal(t, []string{"POST /v1/notes", "PATCH /v1/notes/7", "DELETE /v1/notes/7"}, seen)
}

func TestClientRejectsInvalidArguments(t *testing.T) {
	c := NewWithBaseURL("http://127.0.0.1:1", "secret")
	ctx := context.Background()
	_, err := c.CreateNote(ctx, CreateNoteRequest{Message: "x"})
	require.Error(t, err)
	_, err = c.UpdateNote(ctx, 0, UpdateNoteRequest{Message: "x"})
	require.Error(t, err)
	require.Error(t, c.DeleteNote(ctx, -1))
}

func TestAPIErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "note not found"})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "secret")
	err := c.DeleteNote(context.Background(), 9)
	require.Error(t, err)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "note not found", apiErr.Message)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "api error (404)")
}

func TestMissingTokenFailsBeforeRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "")
	_, err := c.ListNotes(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token not found")
	assert.False(t, called)
}

func TestHealthDoesNotNeedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(HealthResponse{OK: true, Version: "dev", PID: 42})
	}))
	defer server.Close()

	health, err := NewWithBaseURL(server.URL, "").Health(context.Background())
	require.NoError(t, err)
	assert.True(t, health.OK)
	assert.Equal(t, "dev", health.Version)
}

func TestNewReadsTokenFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ADMINNOTES_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "token"), []byte("file-token\n"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer file-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(NotesResponse{})
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Daemon.Address = server.Listener.Addr().String()
	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, server.URL, c.BaseURL())
	notes, err := c.ListNotes(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, notes)
}
