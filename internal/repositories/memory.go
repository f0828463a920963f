package repositories

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/desertthunder/charsheet/internal/models"
	"github.com/zhangyunhao116/skipmap"
)

// MemoryStore keeps sheets in a concurrent skip list ordered by ID.
//
// Reads are lock-free; writes are serialized so that update and delete observe a consistent entry.
type MemoryStore struct {
	sheets *skipmap.FuncMap[int, models.CharacterSheet]
	seq    atomic.Int64
	mu     sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: skipmap.NewFunc[int, models.CharacterSheet](func(a, b int) bool {
			return a < b
		}),
	}
}

func (m *MemoryStore) Create(ctx context.Context, sheet *models.CharacterSheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := stamp(sheet, time.Now().UTC(), true); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sheet.ID = int(m.seq.Add(1))
	m.sheets.Store(sheet.ID, *sheet)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id int) (*models.CharacterSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, ok := m.sheets.Load(id)
	if !ok {
		return nil, notFound(id)
	}
	return &sheet, nil
}

func (m *MemoryStore) Update(ctx context.Context, sheet *models.CharacterSheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sheets.Load(sheet.ID)
	if !ok {
		return notFound(sheet.ID)
	}

	sheet.CreatedAt = stored.CreatedAt
	if err := stamp(sheet, time.Now().UTC(), false); err != nil {
		return err
	}
	m.sheets.Store(sheet.ID, *sheet)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, deleted := m.sheets.LoadAndDelete(id)
	return deleted, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]models.CharacterSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheets := make([]models.CharacterSheet, 0, m.sheets.Len())
	m.sheets.Range(func(_ int, sheet models.CharacterSheet) bool {
		sheets = append(sheets, sheet)
		return true
	})
	return sheets, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
