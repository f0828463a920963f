package tasks

import (
	"fmt"

	"github.com/desertthunder/charsheet/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSheets Phase = iota
	ImportSheets
	ExportSheets
)

func (p Phase) String() string {
	switch p {
	case FetchSheets:
		return "fetch_sheets"
	case ImportSheets:
		return "import_sheets"
	case ExportSheets:
		return "export_sheets"
	default:
		return ""
	}
}

func fetchingSheetsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSheets,
		Step:    0,
		Total:   1,
		Message: "Fetching character sheets...",
	}
}

func fetchedSheetsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSheets,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d character sheets", count),
	}
}

func importStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSheets,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d character sheets...", total),
	}
}

func importCompletedUpdate(step, total int, sheet *models.CharacterSheet) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSheets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (ID: %d)", step, total, sheet.Name, sheet.ID),
		Data:    sheet,
	}
}

func importFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSheets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func exportingUpdate(count int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSheets,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Exporting %d character sheets as %s...", count, format),
	}
}

func exportCompletedUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSheets,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ Wrote %s", path),
		Data:    path,
	}
}
