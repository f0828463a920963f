// package server contains middleware & handlers for the character sheet REST service
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/repositories"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/go-chi/chi/v5"
)

const (
	contentTypeJSON        = "application/json"
	defaultShutdownTimeout = 5 * time.Second
	maxBodyBytes           = 1 << 20
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for resource handlers.
// Implementations mount their own routes on the router they are given.
type Handler interface {
	Routes(r chi.Router) // Routes registers the handler's endpoints on r
}

// Server runs the REST API over a [repositories.Store].
type Server struct {
	store      repositories.Store
	logger     *log.Logger
	token      string
	addr       string
	httpServer *http.Server
}

// NewServer creates a server for store listening on cfg.Addr().
func NewServer(store repositories.Store, cfg shared.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Server{
		store:  store,
		logger: shared.WithLogger(logger, "component", "server"),
		token:  cfg.Token,
		addr:   cfg.Addr(),
	}
}

// Handler returns the root [http.Handler].
func (s *Server) Handler() http.Handler {
	return NewRouter(s.store, s.logger, s.token)
}

// Serve accepts connections on l until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(l)
	}()

	s.logger.Info("HTTP server started", "addr", l.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// ListenAndServe listens on the configured address and calls [Server.Serve].
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, l)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, status int, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *log.Logger, status int, detail string) {
	writeJSON(w, logger, status, errorResponse{Detail: detail})
}

// statusFor maps shared sentinels to response codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrCharacterSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
