package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/charsheet/internal/formatter"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// SheetsList fetches every sheet and prints it in the requested format.
func (r *Runner) SheetsList(ctx context.Context, cmd *cli.Command) error {
	svc := r.sheets(ctx)
	if err := svc.GetAllCharacterSheets(ctx); err != nil {
		return err
	}
	sheets := svc.CharacterSheets.Get()

	if cmd.Bool("json") {
		return r.writeJSON(sheets, cmd.Bool("pretty"))
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	data, err := formatter.Export(sheets, f)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// SheetsGet fetches one sheet into the selection and prints it.
func (r *Runner) SheetsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	svc := r.sheets(ctx)
	if err := svc.GetCharacterSheetByID(ctx, id); err != nil {
		return err
	}

	sheet, ok := svc.SelectedCharacterSheet.Get()
	if !ok {
		return fmt.Errorf("%w: id %d", shared.ErrCharacterSheetNotFound, id)
	}
	return r.writeSheet(cmd, sheet)
}

// SheetsCreate builds a draft from flags, holds it in the draft wrapper and saves it.
func (r *Runner) SheetsCreate(ctx context.Context, cmd *cli.Command) error {
	draft := models.NewCharacterSheetDraft()
	for _, field := range []string{models.FieldName, models.FieldClass, models.FieldNotes} {
		if cmd.IsSet(field) {
			if err := draft.Set(field, cmd.String(field)); err != nil {
				return err
			}
		}
	}
	if cmd.IsSet(models.FieldLevel) {
		draft.Level = cmd.Int(models.FieldLevel)
	}
	if err := applySets(draft, cmd.StringSlice("set")); err != nil {
		return err
	}

	svc := r.sheets(ctx)
	svc.EditDraft(*draft)
	saved, err := svc.SaveNewCharacterSheet(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("created character sheet", "id", saved.ID, "name", saved.Name)
	return r.writeSheet(cmd, *saved)
}

// SheetsUpdate loads a sheet, applies --set assignments and stores the result.
func (r *Runner) SheetsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	svc := r.sheets(ctx)
	if err := svc.GetCharacterSheetByID(ctx, id); err != nil {
		return err
	}
	current, ok := svc.SelectedCharacterSheet.Get()
	if !ok {
		return fmt.Errorf("%w: id %d", shared.ErrCharacterSheetNotFound, id)
	}

	draft := current.Draft()
	if err := applySets(draft, cmd.StringSlice("set")); err != nil {
		return err
	}

	changed := draft.CharacterSheet()
	changed.ID = current.ID
	changed.CreatedAt = current.CreatedAt

	if err := svc.UpdateCharacterSheet(ctx, changed); err != nil {
		return err
	}

	updated, _ := svc.SelectedCharacterSheet.Get()
	return r.writeSheet(cmd, updated)
}

// SheetsDelete deletes a sheet; a delete the server declines is reported, not treated as a failure.
func (r *Runner) SheetsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.sheets(ctx).DeleteCharacterSheet(ctx, id); err != nil {
		if errors.Is(err, shared.ErrDeleteRejected) {
			return r.writePlain("Character sheet %d was not deleted\n", id)
		}
		return err
	}

	return r.writePlain("✓ Deleted character sheet %d\n", id)
}

func (r *Runner) writeSheet(cmd *cli.Command, sheet models.CharacterSheet) error {
	if cmd.Bool("json") {
		return r.writeJSON(sheet, cmd.Bool("pretty"))
	}

	r.writePlainHeader(formatter.Summary(sheet))
	if sheet.Notes != "" {
		r.writePlain("%s\n", sheet.Notes)
	}
	if !sheet.UpdatedAt.IsZero() {
		r.writePlain("Updated: %s\n", sheet.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func parseID(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q must be a positive integer", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// applySets applies field=value assignments to draft.
func applySets(draft *models.CharacterSheetDraft, sets []string) error {
	for _, set := range sets {
		field, value, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("%w: --set %q must be field=value", shared.ErrInvalidArgument, set)
		}
		if err := draft.Set(strings.TrimSpace(field), value); err != nil {
			return err
		}
	}
	return nil
}
