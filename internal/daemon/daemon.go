package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"adminnotes/internal/logging"
	"adminnotes/internal/types"
)

type NoteStore interface {
	List(ctx context.Context, player string) ([]*types.Note, error)
	Get(ctx context.Context, id int) (*types.Note, bool, error)
	Create(ctx context.Context, note *types.Note) (*types.Note, error)
	Update(ctx context.Context, note *types.Note) (*types.Note, error)
	Delete(ctx context.Context, id int) error
}

type Daemon struct {
	addr    string
	token   string
	version string
	server  *http.Server
	notes   NoteStore
	logger  logging.Logger
}

func New(addr, token, version string, notes NoteStore, logger logging.Logger) *Daemon {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Daemon{
		addr:    addr,
		token:   token,
		version: version,
		notes:   notes,
		logger:  logger,
	}
}

// Handler builds the full HTTP stack: routes behind token auth behind request
// logging.
func (d *Daemon) Handler() http.Handler {
	api := &API{
		Version: d.version,
		Store:   d.notes,
		Hub:     newNoteHub(),
		Logger:  d.logger,
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return LoggingMiddleware(d.logger, TokenAuthMiddleware(d.token, mux))
}

func (d *Daemon) Run(ctx context.Context) error {
	d.server = &http.Server{
		Addr:              d.addr,
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when ctx does, so Shutdown is not held up by them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("daemon_listening", logging.F("addr", "http://"+d.addr), logging.F("version", d.version))
		errCh <- d.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		d.logger.Info("daemon_stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
