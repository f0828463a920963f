package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/repositories"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/go-chi/chi/v5"
)

// CharacterSheetHandler serves /character-sheets from a store.
type CharacterSheetHandler struct {
	store  repositories.Store
	logger *log.Logger
}

var _ Handler = (*CharacterSheetHandler)(nil)

// NewCharacterSheetHandler creates a handler backed by store.
func NewCharacterSheetHandler(store repositories.Store, logger *log.Logger) *CharacterSheetHandler {
	return &CharacterSheetHandler{store: store, logger: logger}
}

func (h *CharacterSheetHandler) Routes(r chi.Router) {
	r.Route("/character-sheets", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *CharacterSheetHandler) list(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sheets)
}

func (h *CharacterSheetHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	sheet, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sheet)
}

func (h *CharacterSheetHandler) create(w http.ResponseWriter, r *http.Request) {
	sheet, err := decodeSheet(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	sheet.ID = 0

	if err := h.store.Create(r.Context(), sheet); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, sheet)
}

func (h *CharacterSheetHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	sheet, err := decodeSheet(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	if sheet.ID != 0 && sheet.ID != id {
		h.fail(w, fmt.Errorf("%w: body id %d does not match path id %d", shared.ErrInvalidArgument, sheet.ID, id))
		return
	}
	sheet.ID = id

	if err := h.store.Update(r.Context(), sheet); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sheet)
}

func (h *CharacterSheetHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, deleted)
}

func (h *CharacterSheetHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("character sheet request failed", "error", err)
	}
	writeError(w, h.logger, status, err.Error())
}

func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

func decodeSheet(w http.ResponseWriter, r *http.Request) (*models.CharacterSheet, error) {
	var sheet models.CharacterSheet
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sheet); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", shared.ErrInvalidInput, err)
	}
	// An omitted level means a fresh character.
	if sheet.Level == 0 {
		sheet.Level = models.MinLevel
	}
	return &sheet, nil
}
