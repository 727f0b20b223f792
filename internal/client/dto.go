package client

import "adminnotes/internal/types"

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
	PID     int    `json:"pid"`
}

type NotesResponse struct {
	Notes []*types.Note `json:"notes"`
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
