// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/shared"
)

// FakeTransport is a test double for services.CharacterSheetTransport.
//
// Each operation calls the matching func field when set; unset operations return [shared.ErrNotImplemented].
// Calls are recorded by operation name.
type FakeTransport struct {
	GetAllFn  func(ctx context.Context) ([]models.CharacterSheet, error)
	GetByIDFn func(ctx context.Context, id int) (*models.CharacterSheet, error)
	SaveNewFn func(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error)
	UpdateFn  func(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error)
	DeleteFn  func(ctx context.Context, id int) (bool, error)

	mu    sync.Mutex
	calls map[string]int
}

// Returning sets GetAllFn to return a copy of sheets.
func (f *FakeTransport) Returning(sheets []models.CharacterSheet) *FakeTransport {
	f.GetAllFn = func(context.Context) ([]models.CharacterSheet, error) {
		return append([]models.CharacterSheet(nil), sheets...), nil
	}
	return f
}

// Calls returns how many times op was invoked.
func (f *FakeTransport) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeTransport) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *FakeTransport) GetAllCharacterSheets(ctx context.Context) ([]models.CharacterSheet, error) {
	f.record("GetAllCharacterSheets")
	if f.GetAllFn == nil {
		return nil, shared.ErrNotImplemented
	}
	return f.GetAllFn(ctx)
}

func (f *FakeTransport) GetCharacterSheetByID(ctx context.Context, id int) (*models.CharacterSheet, error) {
	f.record("GetCharacterSheetByID")
	if f.GetByIDFn == nil {
		return nil, shared.ErrNotImplemented
	}
	return f.GetByIDFn(ctx, id)
}

func (f *FakeTransport) SaveNewCharacterSheet(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error) {
	f.record("SaveNewCharacterSheet")
	if f.SaveNewFn == nil {
		return nil, shared.ErrNotImplemented
	}
	return f.SaveNewFn(ctx, sheet)
}

func (f *FakeTransport) UpdateCharacterSheet(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error) {
	f.record("UpdateCharacterSheet")
	if f.UpdateFn == nil {
		return nil, shared.ErrNotImplemented
	}
	return f.UpdateFn(ctx, sheet)
}

func (f *FakeTransport) DeleteCharacterSheet(ctx context.Context, id int) (bool, error) {
	f.record("DeleteCharacterSheet")
	if f.DeleteFn == nil {
		return false, shared.ErrNotImplemented
	}
	return f.DeleteFn(ctx, id)
}

// ExpectedSheets returns the five-sheet fixture with ids 1 through 5.
func ExpectedSheets() []models.CharacterSheet {
	return []models.CharacterSheet{
		models.NewCharacterSheet("Tact", 1),
		models.NewCharacterSheet("Shush", 2),
		models.NewCharacterSheet("Ariel", 3),
		models.NewCharacterSheet("Gidgit", 4),
		models.NewCharacterSheet("Tully", 5),
	}
}

// ListAssertion compares an expected sheet list with an observed one.
type ListAssertion struct {
	Expected []models.CharacterSheet
	Actual   []models.CharacterSheet
}

// SameLength reports whether both lists have the same length.
func (a ListAssertion) SameLength() bool {
	return len(a.Expected) == len(a.Actual)
}

// SameValues reports whether field (id or name) matches at every position.
func (a ListAssertion) SameValues(field string) bool {
	if !a.SameLength() {
		return false
	}
	for i := range a.Expected {
		if fieldOf(a.Expected[i], field) != fieldOf(a.Actual[i], field) {
			return false
		}
	}
	return true
}

// SameValuesCustom reports whether field (id or name) of the actual list equals want, position by position.
func (a ListAssertion) SameValuesCustom(field string, want ...any) bool {
	if len(want) != len(a.Actual) {
		return false
	}
	for i := range want {
		if fmt.Sprint(want[i]) != fieldOf(a.Actual[i], field) {
			return false
		}
	}
	return true
}

func fieldOf(s models.CharacterSheet, field string) string {
	switch field {
	case "id":
		return fmt.Sprint(s.ID)
	case "name":
		return s.Name
	case "class":
		return s.Class
	case "level":
		return fmt.Sprint(s.Level)
	default:
		panic("unknown field " + field)
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
