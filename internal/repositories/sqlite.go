package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/charsheet/internal/models"
)

const sheetColumns = `id, name, class, level, notes, created_at, updated_at`

// SQLiteStore implements models.Repository[models.CharacterSheet] on SQLite.
//
// Deleted sheets are kept with a deleted_at timestamp and excluded from every query.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore with the given migrated database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts sheet with the next sequence number as its ID
func (r *SQLiteStore) Create(ctx context.Context, sheet *models.CharacterSheet) error {
	if err := stamp(sheet, time.Now().UTC(), true); err != nil {
		return err
	}

	id, err := NextSequence(ctx, r.db, "character_sheets")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO character_sheets (` + sheetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sheet.Name,
		sheet.Class,
		sheet.Level,
		sheet.Notes,
		sheet.CreatedAt,
		sheet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert character sheet: %w", err)
	}

	sheet.ID = id
	return nil
}

// Get retrieves a sheet by ID, excluding soft-deleted sheets
func (r *SQLiteStore) Get(ctx context.Context, id int) (*models.CharacterSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM character_sheets WHERE id = ? AND deleted_at IS NULL`

	sheet, err := scanSheet(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// Update overwrites the editable fields of an existing sheet
func (r *SQLiteStore) Update(ctx context.Context, sheet *models.CharacterSheet) error {
	if err := stamp(sheet, time.Now().UTC(), false); err != nil {
		return err
	}

	query := `
		UPDATE character_sheets
		SET name = ?, class = ?, level = ?, notes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		sheet.Name,
		sheet.Class,
		sheet.Level,
		sheet.Notes,
		sheet.UpdatedAt,
		sheet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update character sheet: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(sheet.ID)
	}

	stored, err := r.Get(ctx, sheet.ID)
	if err != nil {
		return err
	}
	sheet.CreatedAt = stored.CreatedAt
	return nil
}

// Delete soft-deletes a sheet by ID; it reports false when no live sheet had that ID
func (r *SQLiteStore) Delete(ctx context.Context, id int) (bool, error) {
	query := `
		UPDATE character_sheets
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete character sheet: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// List retrieves all live sheets ordered by ID
func (r *SQLiteStore) List(ctx context.Context) ([]models.CharacterSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM character_sheets WHERE deleted_at IS NULL ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query character sheets: %w", err)
	}
	defer rows.Close()

	sheets := []models.CharacterSheet{}
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, *sheet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sheets, nil
}

// Close closes the underlying database.
func (r *SQLiteStore) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSheet scans a [sql.Row] or [sql.Rows] into a [models.CharacterSheet]
func scanSheet(row scanner) (*models.CharacterSheet, error) {
	var sheet models.CharacterSheet
	err := row.Scan(
		&sheet.ID,
		&sheet.Name,
		&sheet.Class,
		&sheet.Level,
		&sheet.Notes,
		&sheet.CreatedAt,
		&sheet.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan character sheet: %w", err)
	}
	return &sheet, nil
}
