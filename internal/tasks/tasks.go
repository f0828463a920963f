// package tasks implements bulk character sheet operations.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/charsheet/internal/formatter"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/services"
	"github.com/desertthunder/charsheet/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// BulkImportOpts contains configuration for bulk imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Saves per second (default: 5)
}

// ImportResult is the outcome for a single draft.
type ImportResult struct {
	Index int                    // Position of the draft in the input
	Name  string                 // Draft name, for display
	Sheet *models.CharacterSheet // Stored sheet (nil on failure)
	Error error
}

// BulkImportResult summarizes a bulk import.
type BulkImportResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []ImportResult // Ordered by Index
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path   string
	Format formatter.Format
	Count  int
}

// SheetEngine runs bulk operations through a [services.CharacterSheetService], so results land in its observable state.
type SheetEngine struct {
	svc *services.CharacterSheetService
}

// NewSheetEngine creates an engine bound to svc.
func NewSheetEngine(svc *services.CharacterSheetService) *SheetEngine {
	return &SheetEngine{svc: svc}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *SheetEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type importJob struct {
	index int
	draft models.CharacterSheetDraft
}

// BulkImport saves drafts concurrently with rate limiting and progress tracking.
//
// A failed draft is recorded in the result and does not stop the batch. Canceling ctx stops
// dispatching new drafts; drafts already dispatched finish and the ctx error is returned with the partial result.
func (e *SheetEngine) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	drafts []models.CharacterSheetDraft,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers, max(len(drafts), 1))
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	result := &BulkImportResult{
		Total:   len(drafts),
		Results: make([]ImportResult, 0, len(drafts)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan importJob)
	results := make(chan ImportResult, len(drafts))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.importWorker(ctx, &wg, limiter, jobs, results)
	}

	e.sendProgress(prog, importStartedUpdate(len(drafts)))

	go func() {
		defer close(jobs)
		for i, draft := range drafts {
			select {
			case <-ctx.Done():
				return
			case jobs <- importJob{index: i, draft: draft}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error == nil {
			result.Succeeded++
			e.sendProgress(prog, importCompletedUpdate(completed, len(drafts), res.Sheet))
		} else {
			result.Failed++
			e.sendProgress(prog, importFailedUpdate(completed, len(drafts), res.Name, res.Error))
		}
	}

	slices.SortFunc(result.Results, func(a, b ImportResult) int {
		return cmp.Compare(a.Index, b.Index)
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted after %d of %d: %w", completed, len(drafts), err)
	}
	return result, nil
}

// importWorker saves drafts from the jobs channel.
func (e *SheetEngine) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan importJob,
	results chan<- ImportResult,
) {
	defer wg.Done()

	for job := range jobs {
		res := ImportResult{Index: job.index, Name: job.draft.Name}

		if err := limiter.Wait(ctx); err != nil {
			res.Error = fmt.Errorf("rate limiter: %w", err)
			results <- res
			continue
		}

		res.Sheet, res.Error = e.svc.SaveDraft(ctx, job.draft)
		results <- res
	}
}

// Export refreshes the collection and writes it to path in format f.
//
// An empty path writes character_sheets.{ext} in the working directory.
func (e *SheetEngine) Export(ctx context.Context, prog chan<- ProgressUpdate, f formatter.Format, path string) (*ExportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(prog, fetchingSheetsUpdate())
	if err := e.svc.GetAllCharacterSheets(ctx); err != nil {
		return nil, err
	}

	sheets := e.svc.CharacterSheets.Get()
	e.sendProgress(prog, fetchedSheetsUpdate(len(sheets)))
	e.sendProgress(prog, exportingUpdate(len(sheets), string(f)))

	written, err := formatter.WriteExport(sheets, f, path)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	e.sendProgress(prog, exportCompletedUpdate(written))
	return &ExportResult{Path: written, Format: f, Count: len(sheets)}, nil
}
