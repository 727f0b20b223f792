package daemon

import (
	"strconv"
	"strings"

	"adminnotes/internal/logging"
)

type API struct {
	Version string
	Store   NoteStore
	Hub     *noteHub
	Logger  logging.Logger
}

type CreateNoteRequest struct {
	Player  string `json:"player"`
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
}

type UpdateNoteRequest struct {
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
}

func (a *API) newNoteService() *NoteService {
	return NewNoteService(a.Store, a.Hub)
}

func (a *API) logger() logging.Logger {
	if a == nil || a.Logger == nil {
		return logging.Nop()
	}
	return a.Logger
}

func parseNoteID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
