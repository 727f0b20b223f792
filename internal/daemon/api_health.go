package daemon

import (
	"net/http"
	"os"
)

type healthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
	PID     int    `json:"pid"`
	Store   bool   `json:"store"`
}

// Health is served without auth so clients can probe for a running daemon
// before they have read the token.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:      true,
		Version: a.Version,
		PID:     os.Getpid(),
		Store:   a.Store != nil,
	})
}
