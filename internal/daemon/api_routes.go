package daemon

import "net/http"

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.Health)
	mux.HandleFunc("/v1/notes", a.Notes)
	mux.HandleFunc("/v1/notes/events", a.NoteEvents)
	mux.HandleFunc("/v1/notes/", a.NoteByID)
}
