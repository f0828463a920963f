package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/formatter"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/services"
	"github.com/desertthunder/charsheet/internal/shared"
	th "github.com/desertthunder/charsheet/internal/testing"
)

func quietLogger() *log.Logger {
	logger := shared.NewLogger(nil)
	logger.SetLevel(log.FatalLevel)
	return logger
}

// sequentialSaver assigns ascending ids and fails drafts named in fail.
func sequentialSaver(fail ...string) func(context.Context, models.CharacterSheet) (*models.CharacterSheet, error) {
	var next atomic.Int64
	return func(_ context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error) {
		for _, name := range fail {
			if sheet.Name == name {
				return nil, shared.ErrAPIRequest
			}
		}
		sheet.ID = int(next.Add(1))
		return &sheet, nil
	}
}

func drafts(names ...string) []models.CharacterSheetDraft {
	out := make([]models.CharacterSheetDraft, len(names))
	for i, name := range names {
		out[i] = models.CharacterSheetDraft{Name: name, Level: 1}
	}
	return out
}

func collect(ch chan ProgressUpdate) []ProgressUpdate {
	close(ch)
	var updates []ProgressUpdate
	for u := range ch {
		updates = append(updates, u)
	}
	return updates
}

func TestBulkImport(t *testing.T) {
	t.Run("Saves Every Draft", func(t *testing.T) {
		fake := &th.FakeTransport{SaveNewFn: sequentialSaver()}
		svc := services.NewCharacterSheetService(fake, quietLogger())
		engine := NewSheetEngine(svc)

		prog := make(chan ProgressUpdate, 32)
		result, err := engine.BulkImport(context.Background(), prog, drafts("Tact", "Shush", "Ariel", "Gidgit", "Tully"), BulkImportOpts{
			NumWorkers: 3,
			RateLimit:  1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Total != 5 || result.Succeeded != 5 || result.Failed != 0 {
			t.Errorf("unexpected counts %+v", result)
		}
		for i, res := range result.Results {
			if res.Index != i {
				t.Errorf("expected results ordered by index, got %d at %d", res.Index, i)
			}
		}
		if svc.CharacterSheets.Len() != 5 {
			t.Errorf("expected 5 sheets in collection, got %d", svc.CharacterSheets.Len())
		}

		updates := collect(prog)
		if len(updates) != 6 {
			t.Fatalf("expected 6 progress updates, got %d", len(updates))
		}
		if updates[0].Phase != ImportSheets || updates[0].Total != 5 {
			t.Errorf("unexpected first update %+v", updates[0])
		}
		if last := updates[len(updates)-1]; last.Step != 5 || !strings.Contains(last.Message, "✓") {
			t.Errorf("unexpected last update %+v", last)
		}
	})

	t.Run("Partial Failures", func(t *testing.T) {
		fake := &th.FakeTransport{SaveNewFn: sequentialSaver("Shush")}
		svc := services.NewCharacterSheetService(fake, quietLogger())

		input := drafts("Tact", "Shush", "", "Tully")
		result, err := NewSheetEngine(svc).BulkImport(context.Background(), nil, input, BulkImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Succeeded != 2 || result.Failed != 2 {
			t.Errorf("expected 2 succeeded and 2 failed, got %+v", result)
		}
		if !errors.Is(result.Results[1].Error, shared.ErrAPIRequest) {
			t.Errorf("expected transport failure for Shush, got %v", result.Results[1].Error)
		}
		if !errors.Is(result.Results[2].Error, shared.ErrInvalidInput) {
			t.Errorf("expected validation failure for blank draft, got %v", result.Results[2].Error)
		}
		if fake.Calls("SaveNewCharacterSheet") != 3 {
			t.Errorf("expected 3 transport calls, got %d", fake.Calls("SaveNewCharacterSheet"))
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		svc := services.NewCharacterSheetService(&th.FakeTransport{}, quietLogger())

		result, err := NewSheetEngine(svc).BulkImport(context.Background(), nil, nil, BulkImportOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Total != 0 || len(result.Results) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		var mu sync.Mutex
		saved := 0
		ctx, cancel := context.WithCancel(context.Background())

		fake := &th.FakeTransport{SaveNewFn: func(_ context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error) {
			mu.Lock()
			defer mu.Unlock()
			saved++
			cancel()
			sheet.ID = saved
			return &sheet, nil
		}}
		svc := services.NewCharacterSheetService(fake, quietLogger())

		result, err := NewSheetEngine(svc).BulkImport(ctx, nil, drafts("A", "B", "C", "D", "E", "F"), BulkImportOpts{
			NumWorkers: 1,
			RateLimit:  1000,
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Succeeded == result.Total {
			t.Errorf("expected partial result, got %+v", result)
		}
	})

	t.Run("Nil Service", func(t *testing.T) {
		_, err := NewSheetEngine(nil).BulkImport(context.Background(), nil, drafts("Tact"), BulkImportOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestExport(t *testing.T) {
	t.Run("Writes Collection", func(t *testing.T) {
		fake := (&th.FakeTransport{}).Returning(th.ExpectedSheets())
		svc := services.NewCharacterSheetService(fake, quietLogger())

		path := filepath.Join(t.TempDir(), "party.csv")
		prog := make(chan ProgressUpdate, 8)
		result, err := NewSheetEngine(svc).Export(context.Background(), prog, formatter.FormatCSV, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Count != 5 || result.Path != path {
			t.Errorf("unexpected result %+v", result)
		}
		if !strings.Contains(th.MustReadFile(t, path), "5,Tully") {
			t.Error("expected Tully row in export")
		}

		updates := collect(prog)
		if len(updates) != 4 || updates[3].Phase != ExportSheets {
			t.Errorf("unexpected updates %+v", updates)
		}
	})

	t.Run("Fetch Failure", func(t *testing.T) {
		fake := &th.FakeTransport{GetAllFn: func(context.Context) ([]models.CharacterSheet, error) {
			return nil, shared.ErrAPIRequest
		}}
		svc := services.NewCharacterSheetService(fake, quietLogger())

		_, err := NewSheetEngine(svc).Export(context.Background(), nil, formatter.FormatJSON, filepath.Join(t.TempDir(), "x.json"))
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{
		FetchSheets:  "fetch_sheets",
		ImportSheets: "import_sheets",
		ExportSheets: "export_sheets",
		Phase(99):    "",
	} {
		if got := phase.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
