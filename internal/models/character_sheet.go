package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/charsheet/internal/shared"
)

const (
	MinLevel = 1
	MaxLevel = 20
)

// Draft form field names accepted by [CharacterSheetDraft.Set] and [CharacterSheetDraft.Get].
const (
	FieldName  = "name"
	FieldClass = "class"
	FieldLevel = "level"
	FieldNotes = "notes"
)

// DraftFields lists the form fields in display order.
var DraftFields = []string{FieldName, FieldClass, FieldLevel, FieldNotes}

// CharacterSheet is a persisted character record.
//
// ID is zero until the server assigns one.
type CharacterSheet struct {
	ID        int       `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Class     string    `json:"class,omitempty" yaml:"class,omitempty"`
	Level     int       `json:"level,omitempty" yaml:"level,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// NewCharacterSheet builds a sheet with the given name and identifier.
func NewCharacterSheet(name string, id int) CharacterSheet {
	return CharacterSheet{ID: id, Name: name, Level: MinLevel}
}

// SheetID returns the sheet identifier; used as the key for observable collections.
func SheetID(s CharacterSheet) int { return s.ID }

// Persisted reports whether the server has assigned an identifier.
func (s CharacterSheet) Persisted() bool { return s.ID > 0 }

// Validate checks the fields required before the sheet can be stored.
func (s CharacterSheet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if s.Level < MinLevel || s.Level > MaxLevel {
		return fmt.Errorf("%w: level %d outside %d..%d", shared.ErrInvalidInput, s.Level, MinLevel, MaxLevel)
	}
	return nil
}

// Draft returns an editable copy of the sheet's fields.
func (s CharacterSheet) Draft() *CharacterSheetDraft {
	return &CharacterSheetDraft{Name: s.Name, Class: s.Class, Level: s.Level, Notes: s.Notes}
}

// CharacterSheetDraft is the editable form behind create flows.
//
// It carries no identifier; the server assigns one when the draft is saved.
type CharacterSheetDraft struct {
	Name  string `json:"name" yaml:"name"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	Level int    `json:"level,omitempty" yaml:"level,omitempty"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewCharacterSheetDraft returns an empty draft at the minimum level.
func NewCharacterSheetDraft() *CharacterSheetDraft {
	return &CharacterSheetDraft{Level: MinLevel}
}

// Set assigns a form field by name.
func (d *CharacterSheetDraft) Set(field, value string) error {
	switch strings.ToLower(field) {
	case FieldName:
		d.Name = strings.TrimSpace(value)
	case FieldClass:
		d.Class = strings.TrimSpace(value)
	case FieldNotes:
		d.Notes = value
	case FieldLevel:
		level, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: level %q is not a number", shared.ErrInvalidInput, value)
		}
		d.Level = level
	default:
		return fmt.Errorf("%w: %q", shared.ErrUnknownField, field)
	}
	return nil
}

// Get reads a form field by name.
func (d *CharacterSheetDraft) Get(field string) (string, error) {
	switch strings.ToLower(field) {
	case FieldName:
		return d.Name, nil
	case FieldClass:
		return d.Class, nil
	case FieldNotes:
		return d.Notes, nil
	case FieldLevel:
		return strconv.Itoa(d.Level), nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownField, field)
	}
}

// Validate checks the draft the same way a stored sheet is checked.
//
// A zero level is treated as [MinLevel].
func (d *CharacterSheetDraft) Validate() error {
	return d.CharacterSheet().Validate()
}

// CharacterSheet converts the draft into an unsaved sheet.
func (d *CharacterSheetDraft) CharacterSheet() CharacterSheet {
	level := d.Level
	if level == 0 {
		level = MinLevel
	}
	return CharacterSheet{
		Name:  strings.TrimSpace(d.Name),
		Class: d.Class,
		Level: level,
		Notes: d.Notes,
	}
}
