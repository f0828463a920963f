package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/observable"
	"github.com/desertthunder/charsheet/internal/shared"
)

// CharacterSheetService calls the transport and commits results into observable state.
//
// Every wrapper starts empty. A failed call leaves all wrappers untouched.
type CharacterSheetService struct {
	http   CharacterSheetTransport
	logger *log.Logger

	CharacterSheets        *observable.List[models.CharacterSheet, int]
	SelectedCharacterSheet *observable.Single[models.CharacterSheet]
	NewCharacterSheet      *observable.Single[models.CharacterSheetDraft]
}

// NewCharacterSheetService creates a service bound to transport. A nil logger uses [shared.NewLogger].
func NewCharacterSheetService(transport CharacterSheetTransport, logger *log.Logger) *CharacterSheetService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CharacterSheetService{
		http:                   transport,
		logger:                 shared.WithLogger(logger, "service", "character_sheets"),
		CharacterSheets:        observable.NewList(models.SheetID),
		SelectedCharacterSheet: observable.NewSingle[models.CharacterSheet](),
		NewCharacterSheet:      observable.NewSingle[models.CharacterSheetDraft](),
	}
}

// GetAllCharacterSheets replaces the collection with the server's list.
func (s *CharacterSheetService) GetAllCharacterSheets(ctx context.Context) error {
	sheets, err := s.http.GetAllCharacterSheets(ctx)
	if err != nil {
		return s.fail("list", err)
	}

	s.CharacterSheets.ReplaceAll(sheets)
	s.logger.Debug("loaded character sheets", "count", len(sheets))
	return nil
}

// GetCharacterSheetByID fetches a sheet and makes it the selection.
func (s *CharacterSheetService) GetCharacterSheetByID(ctx context.Context, id int) error {
	sheet, err := s.http.GetCharacterSheetByID(ctx, id)
	if err != nil {
		return s.fail("get", err, "id", id)
	}
	if sheet == nil {
		return s.fail("get", fmt.Errorf("%w: id %d", shared.ErrCharacterSheetNotFound, id), "id", id)
	}

	s.SelectedCharacterSheet.Change(*sheet)
	return nil
}

// SaveNewCharacterSheet saves the draft held by NewCharacterSheet.
//
// On success the saved sheet is upserted into the collection, the draft is cleared, and the stored sheet is returned.
func (s *CharacterSheetService) SaveNewCharacterSheet(ctx context.Context) (*models.CharacterSheet, error) {
	draft, ok := s.NewCharacterSheet.Get()
	if !ok {
		return nil, s.fail("save", shared.ErrNoDraft)
	}

	saved, err := s.SaveDraft(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.NewCharacterSheet.Clear()
	return saved, nil
}

// SaveDraft validates draft, saves it, and upserts the stored sheet into the collection.
func (s *CharacterSheetService) SaveDraft(ctx context.Context, draft models.CharacterSheetDraft) (*models.CharacterSheet, error) {
	if err := draft.Validate(); err != nil {
		return nil, s.fail("save", err, "name", draft.Name)
	}

	saved, err := s.http.SaveNewCharacterSheet(ctx, draft.CharacterSheet())
	if err != nil {
		return nil, s.fail("save", err, "name", draft.Name)
	}
	if saved == nil || !saved.Persisted() {
		return nil, s.fail("save", fmt.Errorf("%w: server returned no identifier", shared.ErrAPIRequest), "name", draft.Name)
	}

	s.CharacterSheets.Upsert(*saved)
	s.logger.Info("saved character sheet", "id", saved.ID, "name", saved.Name)
	return saved, nil
}

// UpdateCharacterSheet stores changes to an existing sheet.
//
// The stored sheet replaces its collection entry in place and refreshes the selection if it is selected.
func (s *CharacterSheetService) UpdateCharacterSheet(ctx context.Context, sheet models.CharacterSheet) error {
	if !sheet.Persisted() {
		return s.fail("update", fmt.Errorf("%w: sheet has no identifier", shared.ErrInvalidInput))
	}
	if err := sheet.Validate(); err != nil {
		return s.fail("update", err, "id", sheet.ID)
	}

	updated, err := s.http.UpdateCharacterSheet(ctx, sheet)
	if err != nil {
		return s.fail("update", err, "id", sheet.ID)
	}
	if updated == nil || !updated.Persisted() {
		return s.fail("update", fmt.Errorf("%w: server returned no sheet", shared.ErrAPIRequest), "id", sheet.ID)
	}

	s.CharacterSheets.Upsert(*updated)
	s.SelectedCharacterSheet.ChangeIf(sameID(updated.ID), *updated)
	return nil
}

// DeleteCharacterSheet removes a sheet once the server confirms the delete.
//
// When the server answers false nothing changes and [shared.ErrDeleteRejected] is returned.
func (s *CharacterSheetService) DeleteCharacterSheet(ctx context.Context, id int) error {
	deleted, err := s.http.DeleteCharacterSheet(ctx, id)
	if err != nil {
		return s.fail("delete", err, "id", id)
	}
	if !deleted {
		return s.fail("delete", fmt.Errorf("%w: id %d", shared.ErrDeleteRejected, id), "id", id)
	}

	s.CharacterSheets.Remove(id)
	s.SelectedCharacterSheet.ClearIf(sameID(id))
	s.logger.Info("deleted character sheet", "id", id)
	return nil
}

// SelectCharacterSheet makes sheet the selection without a remote call.
func (s *CharacterSheetService) SelectCharacterSheet(sheet models.CharacterSheet) {
	s.SelectedCharacterSheet.Change(sheet)
}

// ClearSelection empties the selection.
func (s *CharacterSheetService) ClearSelection() {
	s.SelectedCharacterSheet.Clear()
}

// EditDraft replaces the draft held by NewCharacterSheet.
func (s *CharacterSheetService) EditDraft(draft models.CharacterSheetDraft) {
	s.NewCharacterSheet.Change(draft)
}

func (s *CharacterSheetService) fail(op string, err error, kv ...any) error {
	s.logger.Warn("character sheet "+op+" failed", append(kv, "error", err)...)
	return fmt.Errorf("%s character sheet: %w", op, err)
}

func sameID(id int) func(models.CharacterSheet) bool {
	return func(s models.CharacterSheet) bool { return s.ID == id }
}
