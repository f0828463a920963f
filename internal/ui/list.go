package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/charsheet/internal/models"
)

var _ list.Item = sheetItem{}

// sheetItem wraps [models.CharacterSheet] to implement [list.Item].
type sheetItem struct {
	sheet models.CharacterSheet
}

func (i sheetItem) FilterValue() string { return i.sheet.Name }
func (i sheetItem) Title() string       { return i.sheet.Name }
func (i sheetItem) Description() string {
	desc := fmt.Sprintf("#%d • level %d", i.sheet.ID, i.sheet.Level)
	if i.sheet.Class != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.sheet.Class)
	}
	return desc
}

func sheetItems(sheets []models.CharacterSheet) []list.Item {
	items := make([]list.Item, len(sheets))
	for i, s := range sheets {
		items[i] = sheetItem{sheet: s}
	}
	return items
}
