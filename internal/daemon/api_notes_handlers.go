package daemon

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"adminnotes/internal/logging"
)

const eventStreamKeepAlive = 25 * time.Second

func (a *API) Notes(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil {
		writeServiceError(w, unavailableError("note store not available", nil))
		return
	}
	service := a.newNoteService()
	switch r.Method {
	case http.MethodGet:
		notes, err := service.List(r.Context(), r.URL.Query().Get("player"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
		return
	case http.MethodPost:
		var req CreateNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		note, err := service.Create(r.Context(), req.Player, req.Message, req.Author)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.logger().Info("note_created",
			logging.F("note_id", note.ID),
			logging.F("player", note.Player),
			logging.F("author", note.CreatedBy),
		)
		writeJSON(w, http.StatusCreated, note)
		return
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (a *API) NoteByID(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil {
		writeServiceError(w, unavailableError("note store not available", nil))
		return
	}
	service := a.newNoteService()
	path := strings.TrimPrefix(r.URL.Path, "/v1/notes/")
	raw := strings.TrimSpace(strings.Trim(path, "/"))
	if raw == "" || strings.Contains(raw, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	id, ok := parseNoteID(raw)
	if !ok {
		writeServiceError(w, invalidError("invalid note id", nil))
		return
	}

	switch r.Method {
	case http.MethodGet:
		note, err := service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, note)
		return
	case http.MethodPatch:
		var req UpdateNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		note, err := service.Update(r.Context(), id, req.Message, req.Author)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		a.logger().Info("note_updated",
			logging.F("note_id", note.ID),
			logging.F("player", note.Player),
			logging.F("editor", note.LastEditedBy),
		)
		writeJSON(w, http.StatusOK, note)
		return
	case http.MethodDelete:
		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		a.logger().Info("note_deleted", logging.F("note_id", id))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

// NoteEvents streams note change events for the player in the query as
// server-sent events until the client goes away.
func (a *API) NoteEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	player := strings.TrimSpace(r.URL.Query().Get("player"))
	ch, cancel, err := a.newNoteService().Subscribe(r.Context(), player)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	_, _ = w.Write([]byte(":\n\n"))
	flusher.Flush()

	log := a.logger()
	log.Debug("note_events_open", logging.F("player", player))
	count := 0
	defer func() {
		log.Debug("note_events_close", logging.F("player", player), logging.F("count", count))
	}()

	keepAlive := time.NewTicker(eventStreamKeepAlive)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(data)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
			count++
		}
	}
}
