package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/charsheet/internal/models"
)

const characterSheetsPath = "/api/character-sheets"

var _ CharacterSheetTransport = (*CharacterSheetHTTP)(nil)

// CharacterSheetHTTP implements [CharacterSheetTransport] over the REST API.
type CharacterSheetHTTP struct {
	api *APIService
}

// NewCharacterSheetHTTP creates a transport that sends requests through api.
func NewCharacterSheetHTTP(api *APIService) *CharacterSheetHTTP {
	return &CharacterSheetHTTP{api: api}
}

// GetAllCharacterSheets calls GET /api/character-sheets.
func (h *CharacterSheetHTTP) GetAllCharacterSheets(ctx context.Context) ([]models.CharacterSheet, error) {
	var sheets []models.CharacterSheet
	if err := h.api.Do(ctx, http.MethodGet, characterSheetsPath, nil, &sheets); err != nil {
		return nil, err
	}
	if sheets == nil {
		sheets = []models.CharacterSheet{}
	}
	return sheets, nil
}

// GetCharacterSheetByID calls GET /api/character-sheets/{id}.
func (h *CharacterSheetHTTP) GetCharacterSheetByID(ctx context.Context, id int) (*models.CharacterSheet, error) {
	var sheet models.CharacterSheet
	if err := h.api.Do(ctx, http.MethodGet, sheetPath(id), nil, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// SaveNewCharacterSheet calls POST /api/character-sheets.
func (h *CharacterSheetHTTP) SaveNewCharacterSheet(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error) {
	sheet.ID = 0

	var saved models.CharacterSheet
	if err := h.api.Do(ctx, http.MethodPost, characterSheetsPath, sheet, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateCharacterSheet calls PUT /api/character-sheets/{id}.
func (h *CharacterSheetHTTP) UpdateCharacterSheet(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error) {
	var updated models.CharacterSheet
	if err := h.api.Do(ctx, http.MethodPut, sheetPath(sheet.ID), sheet, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCharacterSheet calls DELETE /api/character-sheets/{id}; the server answers true or false.
func (h *CharacterSheetHTTP) DeleteCharacterSheet(ctx context.Context, id int) (bool, error) {
	var deleted bool
	if err := h.api.Do(ctx, http.MethodDelete, sheetPath(id), nil, &deleted); err != nil {
		return false, err
	}
	return deleted, nil
}

func sheetPath(id int) string {
	return fmt.Sprintf("%s/%d", characterSheetsPath, id)
}
