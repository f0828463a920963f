package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router for store.
//
// A non-empty token protects every route under /api.
func NewRouter(store repositories.Store, logger *log.Logger, token string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID, Logging(logger), middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, logger, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(BearerAuth(token, logger))
		Mount(api, NewCharacterSheetHandler(store, logger))
	})

	return r
}

// Mount registers each handler's routes on r.
func Mount(r chi.Router, handlers ...Handler) {
	for _, h := range handlers {
		h.Routes(r)
	}
}
