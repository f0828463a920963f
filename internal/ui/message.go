package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/charsheet/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSheetsChanged MsgKind = iota
	MsgSelectionChanged
	MsgDraftChanged
	MsgOpDone
)

// Operation names carried by [MsgOpDone].
const (
	opLoad   = "load"
	opOpen   = "open"
	opSave   = "save"
	opDelete = "delete"
)

// opResult is the payload of [MsgOpDone].
type opResult struct {
	op  string
	err error
}

// sheetsChangedMsg is the constructor for [MsgSheetsChanged]
func sheetsChangedMsg(sheets []models.CharacterSheet) Msg {
	return Msg{kind: MsgSheetsChanged, data: sheets}
}

// selectionChangedMsg is the constructor for [MsgSelectionChanged]; the slice holds zero or one sheet
func selectionChangedMsg(sel []models.CharacterSheet) Msg {
	return Msg{kind: MsgSelectionChanged, data: sel}
}

// draftChangedMsg is the constructor for [MsgDraftChanged]; the slice holds zero or one draft
func draftChangedMsg(drafts []models.CharacterSheetDraft) Msg {
	return Msg{kind: MsgDraftChanged, data: drafts}
}

// opDoneMsg is the constructor for [MsgOpDone]
func opDoneMsg(op string, err error) Msg {
	return Msg{kind: MsgOpDone, data: opResult{op: op, err: err}}
}
