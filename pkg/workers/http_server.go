package workers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type httpServer struct {
	server *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) (*httpServer, error) {
	return &httpServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (h *httpServer) Name() string { return "http_server" }

func (h *httpServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", h.Name(), "addr", h.server.Addr)
	defer slog.Info("Worker stopped", "name", h.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelFn()
		return h.server.Shutdown(shutdownCtx)
	}
}
