package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"adminnotes/internal/store"
	"adminnotes/internal/types"
)

const testToken = "token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	notes := store.NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"))
	d := New("127.0.0.1:0", testToken, "test", notes, nil)
	server := httptest.NewServer(d.Handler())
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestNotesCreateListUpdateDelete(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, server, http.MethodPost, "/v1/notes", CreateNoteRequest{Player: "alice", Message: "  griefing  ", Author: "mod"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeBody[types.Note](t, resp)
	if created.ID <= 0 || created.Message != "griefing" || created.CreatedBy != "mod" {
		t.Fatalf("unexpected created note: %#v", created)
	}
	doRequest(t, server, http.MethodPost, "/v1/notes", CreateNoteRequest{Player: "bob", Message: "spam"})

	resp = doRequest(t, server, http.MethodGet, "/v1/notes?player=alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	listed := decodeBody[struct {
		Notes []*types.Note `json:"notes"`
	}](t, resp)
	if len(listed.Notes) != 1 || listed.Notes[0].ID != created.ID {
		t.Fatalf("expected only alice's note, got %#v", listed.Notes)
	}

	path := "/v1/notes/" + itoa(created.ID)
	resp = doRequest(t, server, http.MethodPatch, path, UpdateNoteRequest{Message: "griefing, warned", Author: "lead"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	updated := decodeBody[types.Note](t, resp)
	if updated.Message != "griefing, warned" || updated.LastEditedBy != "lead" || updated.Player != "alice" {
		t.Fatalf("unexpected updated note: %#v", updated)
	}

	resp = doRequest(t, server, http.MethodGet, path, nil)
	if got := decodeBody[types.Note](t, resp); got.Message != "griefing, warned" {
		t.Fatalf("get after update = %q", got.Message)
	}

	resp = doRequest(t, server, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = doRequest(t, server, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestNotesValidationErrors(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "missing-player", method: http.MethodPost, path: "/v1/notes", body: CreateNoteRequest{Message: "x"}, want: http.StatusBadRequest},
		{name: "blank-message", method: http.MethodPost, path: "/v1/notes", body: CreateNoteRequest{Player: "p", Message: "   "}, want: http.StatusBadRequest},
		{name: "too-long", method: http.MethodPost, path: "/v1/notes", body: CreateNoteRequest{Player: "p", Message: strings.Repeat("a", maxNoteLength+1)}, want: http.StatusBadRequest},
		{name: "bad-id", method: http.MethodGet, path: "/v1/notes/abc", want: http.StatusBadRequest},
		{name: "zero-id", method: http.MethodDelete, path: "/v1/notes/0", want: http.StatusBadRequest},
		{name: "unknown-id", method: http.MethodPatch, path: "/v1/notes/99", body: UpdateNoteRequest{Message: "x"}, want: http.StatusNotFound},
		{name: "unknown-delete", method: http.MethodDelete, path: "/v1/notes/99", want: http.StatusNotFound},
		{name: "nested-path", method: http.MethodGet, path: "/v1/notes/1/extra", want: http.StatusNotFound},
		{name: "method", method: http.MethodPut, path: "/v1/notes", want: http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, server, tc.method, tc.path, tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
			if msg := decodeBody[errorResponse](t, resp); msg.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestHealthWithoutToken(t *testing.T) {
	server := newTestServer(t)
	resp, err := server.Client().Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	health := decodeBody[healthResponse](t, resp)
	if !health.OK || health.Version != "test" || !health.Store {
		t.Fatalf("unexpected health: %#v", health)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestNoteEventsStream(t *testing.T) {
	server := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/notes/events?player=alice", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	reader := bufio.NewReader(resp.Body)
	if line, err := reader.ReadString('\n'); err != nil || line != ":\n" {
		t.Fatalf("expected opening comment, got %q (%v)", line, err)
	}

	doRequest(t, server, http.MethodPost, "/v1/notes", CreateNoteRequest{Player: "bob", Message: "other"})
	created := decodeBody[types.Note](t, doRequest(t, server, http.MethodPost, "/v1/notes", CreateNoteRequest{Player: "alice", Message: "mine"}))

	event := readEvent(t, reader)
	if event.Type != types.NoteEventCreated || event.ID != created.ID || event.Player != "alice" {
		t.Fatalf("unexpected event: %#v", event)
	}

	doRequest(t, server, http.MethodDelete, "/v1/notes/"+itoa(created.ID), nil)
	event = readEvent(t, reader)
	if event.Type != types.NoteEventDeleted || event.ID != created.ID {
		t.Fatalf("unexpected event: %#v", event)
	}
}

func readEvent(t *testing.T, reader *bufio.Reader) types.NoteEvent {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		payload, ok := strings.CutPrefix(strings.TrimSpace(line), "data: ")
		if !ok {
			continue
		}
		var event types.NoteEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return event
	}
}

func itoa(id int) string {
	data, _ := json.Marshal(id)
	return string(data)
}
