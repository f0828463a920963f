// package repositories provides persistence layer implementations for character sheets.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/shared"
)

// Store is a character sheet repository that owns a connection.
type Store interface {
	models.Repository[models.CharacterSheet]
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// OpenStore opens the backend named by cfg.Server.Store.
func OpenStore(ctx context.Context, cfg *shared.Config, logger *log.Logger) (Store, error) {
	switch cfg.Server.Store {
	case shared.StoreSQLite, "":
		db, err := shared.OpenDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened sqlite store", "path", cfg.Database.Path)
		return NewSQLiteStore(db), nil
	case shared.StoreMemory:
		logger.Debug("opened memory store")
		return NewMemoryStore(), nil
	case shared.StoreRedis:
		store, err := DialRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened redis store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", shared.ErrInvalidConfig, cfg.Server.Store)
	}
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// The sequence is the character sheet identifier, so ids are never reused.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// stamp validates sheet and sets its timestamps for a write at now.
func stamp(sheet *models.CharacterSheet, now time.Time, created bool) error {
	if err := sheet.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if created || sheet.CreatedAt.IsZero() {
		sheet.CreatedAt = now
	}
	sheet.UpdatedAt = now
	return nil
}

func notFound(id int) error {
	return fmt.Errorf("%w: id %d", shared.ErrCharacterSheetNotFound, id)
}
