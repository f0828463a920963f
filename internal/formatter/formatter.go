// package formatter converts character sheets to export formats (JSON, YAML, CSV, Markdown, plain text)
// and parses draft files for bulk import
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/goccy/go-yaml"
)

// Format names an export or import encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists every export format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatText}

var csvHeaders = []string{"ID", "Name", "Class", "Level", "Notes"}

// ParseFormat resolves a format name or common alias (yml, md, txt).
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// Export encodes sheets in format f.
func Export(sheets []models.CharacterSheet, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(sheets)
	case FormatYAML:
		return ExportToYAML(sheets)
	case FormatCSV:
		return ExportToCSV(sheets)
	case FormatMarkdown:
		return ExportToMarkdown(sheets)
	case FormatText:
		return ExportToText(sheets)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownFormat, f)
	}
}

// ExportToJSON encodes sheets as an indented JSON array
func ExportToJSON(sheets []models.CharacterSheet) ([]byte, error) {
	if sheets == nil {
		sheets = []models.CharacterSheet{}
	}
	data, err := json.MarshalIndent(sheets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML encodes sheets as a YAML sequence
func ExportToYAML(sheets []models.CharacterSheet) ([]byte, error) {
	if sheets == nil {
		sheets = []models.CharacterSheet{}
	}
	data, err := yaml.Marshal(sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}

// ExportToCSV converts sheets to CSV format with columns: ID, Name, Class, Level, Notes
func ExportToCSV(sheets []models.CharacterSheet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, sheet := range sheets {
		record := []string{
			strconv.Itoa(sheet.ID),
			sheet.Name,
			sheet.Class,
			strconv.Itoa(sheet.Level),
			sheet.Notes,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders sheets as a Markdown table followed by each sheet's notes
func ExportToMarkdown(sheets []models.CharacterSheet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Character Sheets\n\n")
	fmt.Fprintf(&buf, "**Count**: %d\n\n", len(sheets))

	if len(sheets) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| ID | Name | Class | Level |\n")
	buf.WriteString("|---:|------|-------|------:|\n")
	for _, sheet := range sheets {
		fmt.Fprintf(&buf, "| %d | %s | %s | %d |\n", sheet.ID, escapeCell(sheet.Name), escapeCell(sheet.Class), sheet.Level)
	}

	for _, sheet := range sheets {
		if sheet.Notes == "" {
			continue
		}
		fmt.Fprintf(&buf, "\n## %s\n\n%s\n", sheet.Name, sheet.Notes)
	}

	return buf.Bytes(), nil
}

// ExportToText lists sheets one per line
func ExportToText(sheets []models.CharacterSheet) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Character sheets: %d\n\n", len(sheets))
	for _, sheet := range sheets {
		buf.WriteString(Summary(sheet))
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// Summary formats a sheet as a single line, e.g. "#3 Ariel (Bard, level 4)".
func Summary(sheet models.CharacterSheet) string {
	if sheet.Class == "" {
		return fmt.Sprintf("#%d %s (level %d)", sheet.ID, sheet.Name, sheet.Level)
	}
	return fmt.Sprintf("#%d %s (%s, level %d)", sheet.ID, sheet.Name, sheet.Class, sheet.Level)
}

// WriteExport encodes sheets and writes them to path.
//
// Defaults to character_sheets.{ext} in the working directory.
func WriteExport(sheets []models.CharacterSheet, f Format, path string) (string, error) {
	if path == "" {
		path = "character_sheets." + f.Extension()
	}

	data, err := Export(sheets, f)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// ParseDrafts decodes an import file into drafts.
//
// JSON and YAML files hold a list of objects; CSV files need a header row naming draft fields.
// Identifier and timestamp columns are ignored since the server assigns them.
func ParseDrafts(data []byte, f Format) ([]models.CharacterSheetDraft, error) {
	var drafts []models.CharacterSheetDraft

	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &drafts); err != nil {
			return nil, fmt.Errorf("%w: JSON: %v", shared.ErrInvalidInput, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &drafts); err != nil {
			return nil, fmt.Errorf("%w: YAML: %v", shared.ErrInvalidInput, err)
		}
	case FormatCSV:
		parsed, err := parseCSVDrafts(data)
		if err != nil {
			return nil, err
		}
		drafts = parsed
	default:
		return nil, fmt.Errorf("%w: cannot import %q", shared.ErrUnknownFormat, f)
	}

	for i := range drafts {
		if drafts[i].Level == 0 {
			drafts[i].Level = models.MinLevel
		}
	}
	return drafts, nil
}

// ReadDrafts reads and parses the import file at path, inferring its format from the extension.
func ReadDrafts(path string) ([]models.CharacterSheetDraft, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	return ParseDrafts(data, f)
}

func parseCSVDrafts(data []byte) ([]models.CharacterSheetDraft, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.CharacterSheetDraft{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CSV header: %v", shared.ErrInvalidInput, err)
	}

	// column index -> draft field; unknown columns are skipped
	columns := make(map[int]string)
	for i, name := range header {
		field := strings.ToLower(strings.TrimSpace(name))
		for _, known := range models.DraftFields {
			if field == known {
				columns[i] = field
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: CSV header has no draft fields", shared.ErrInvalidInput)
	}

	drafts := []models.CharacterSheetDraft{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: CSV line %d: %v", shared.ErrInvalidInput, line, err)
		}

		draft := models.NewCharacterSheetDraft()
		for i, field := range columns {
			if i >= len(record) || record[i] == "" {
				continue
			}
			if err := draft.Set(field, record[i]); err != nil {
				return nil, fmt.Errorf("CSV line %d: %w", line, err)
			}
		}
		drafts = append(drafts, *draft)
	}

	return drafts, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
