package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/charsheet/internal/formatter"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/desertthunder/charsheet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export fetches every sheet and writes it to a file.
//
// The format comes from --format, then the --output extension, then defaults to JSON.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")

	var f formatter.Format
	var err error
	switch {
	case cmd.String("format") != "":
		f, err = formatter.ParseFormat(cmd.String("format"))
	case output != "":
		f, err = formatter.FormatFromPath(output)
	default:
		f = formatter.FormatJSON
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	progress, done := r.logProgress()
	result, err := r.engine(ctx).Export(ctx, progress, f, output)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d character sheets to %s\n", result.Count, result.Path)
}

// Import reads drafts from a file and saves them concurrently.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	drafts, err := formatter.ReadDrafts(path)
	if err != nil {
		return err
	}

	opts := tasks.BulkImportOpts{NumWorkers: cmd.Int("workers"), RateLimit: cmd.Float("rate")}

	progress, done := r.logProgress()
	result, err := r.engine(ctx).BulkImport(ctx, progress, drafts, opts)
	close(progress)
	<-done
	if result == nil {
		return err
	}

	if cmd.Bool("json") {
		summary := importSummary(result)
		if werr := r.writeJSON(summary, true); werr != nil {
			return werr
		}
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Imported %d of %d character sheets", result.Succeeded, result.Total))
	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("✗ %d. %s: %v\n", res.Index+1, res.Name, res.Error)
			continue
		}
		r.writePlain("✓ %d. %s\n", res.Index+1, formatter.Summary(*res.Sheet))
	}
	return err
}

// logProgress drains progress updates into the debug log until the channel is closed.
func (r *Runner) logProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()
	return progress, done
}

type importLine struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	ID    int    `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func importSummary(result *tasks.BulkImportResult) map[string]any {
	lines := make([]importLine, 0, len(result.Results))
	for _, res := range result.Results {
		line := importLine{Index: res.Index, Name: res.Name}
		if res.Sheet != nil {
			line.ID = res.Sheet.ID
		}
		if res.Error != nil {
			line.Error = res.Error.Error()
		}
		lines = append(lines, line)
	}

	return map[string]any{
		"total":     result.Total,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"results":   lines,
	}
}
