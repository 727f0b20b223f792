package daemon

import (
	"net/http"
	"strings"
	"time"

	"adminnotes/internal/logging"
)

const requestIDHeader = "X-Request-Id"

// statusWriter captures what a handler sent so it can be logged afterwards.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

// Flush is required by the note event stream.
func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func LoggingMiddleware(logger logging.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if reqID == "" {
			reqID = logging.NewRequestID()
		}
		w.Header().Set(requestIDHeader, reqID)

		started := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		fields := []logging.Field{
			logging.F("request_id", reqID),
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("status", sw.status),
			logging.F("bytes", sw.written),
			logging.F("latency_ms", time.Since(started).Milliseconds()),
		}
		if player := strings.TrimSpace(r.URL.Query().Get("player")); player != "" {
			fields = append(fields, logging.F("player", player))
		}
		logRequest(logger, r.URL.Path, sw.status, fields)
	})
}

func logRequest(logger logging.Logger, path string, status int, fields []logging.Field) {
	switch {
	case status >= http.StatusInternalServerError:
		logger.Warn("http_request", fields...)
	case path == "/health":
		// Probes run often; keep them out of info output.
		logger.Debug("http_request", fields...)
	case path == "/v1/notes/events":
		logger.Info("note_stream_closed", fields...)
	default:
		logger.Info("http_request", fields...)
	}
}
