package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/charsheet/internal/formatter"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/services"
	"github.com/desertthunder/charsheet/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	FormView
	ConfirmDeleteView
)

const snapshotBuffer = 64

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	svc         *services.CharacterSheetService
	view        ViewState
	width       int
	height      int
	sheetList   list.Model
	selected    *models.CharacterSheet
	deleting    *models.CharacterSheet
	inputs      []textinput.Model
	focus       int
	busy        string
	status      string
	snapshots   chan Msg
	unsubscribe []func()
	help        help.Model
	keys        keyMap
}

// NewModel creates a TUI model bound to svc and subscribes to its wrappers.
//
// Call [Model.Close] when the program exits to drop the subscriptions.
func NewModel(ctx context.Context, svc *services.CharacterSheetService) *Model {
	sheetList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	sheetList.Title = "Character Sheets"
	sheetList.SetShowHelp(false)

	m := &Model{
		ctx:       ctx,
		svc:       svc,
		view:      ListView,
		sheetList: sheetList,
		snapshots: make(chan Msg, snapshotBuffer),
		help:      help.New(),
		keys:      newKeyMap(),
	}

	m.unsubscribe = []func(){
		svc.CharacterSheets.Subscribe(func(sheets []models.CharacterSheet) {
			m.snapshots <- sheetsChangedMsg(sheets)
		}),
		svc.SelectedCharacterSheet.Subscribe(func(sel []models.CharacterSheet) {
			m.snapshots <- selectionChangedMsg(sel)
		}),
		svc.NewCharacterSheet.Subscribe(func(drafts []models.CharacterSheetDraft) {
			m.snapshots <- draftChangedMsg(drafts)
		}),
	}

	return m
}

// Close unsubscribes from the service wrappers.
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
}

// Init starts listening for snapshots and loads the collection.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.load())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sheetList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSheetsChanged:
		sheets := msg.data.([]models.CharacterSheet)
		cmd := m.sheetList.SetItems(sheetItems(sheets))
		return m, tea.Batch(cmd, m.waitForSnapshot())

	case MsgSelectionChanged:
		sel := msg.data.([]models.CharacterSheet)
		if len(sel) == 0 {
			m.selected = nil
			if m.view == DetailView {
				m.view = ListView
			}
		} else {
			m.selected = &sel[0]
		}
		return m, m.waitForSnapshot()

	case MsgDraftChanged:
		drafts := msg.data.([]models.CharacterSheetDraft)
		if len(drafts) == 1 && m.view == FormView {
			m.fillForm(drafts[0])
		}
		return m, m.waitForSnapshot()

	case MsgOpDone:
		return m.handleOpDone(msg.data.(opResult))
	}

	return m, nil
}

func (m *Model) handleOpDone(res opResult) (tea.Model, tea.Cmd) {
	m.busy = ""

	if res.err != nil {
		switch {
		case errors.Is(res.err, shared.ErrDeleteRejected):
			m.status = styles.warn.Render("The server kept that sheet; nothing was deleted.")
		default:
			m.status = styles.err.Render(fmt.Sprintf("%s failed: %v", res.op, res.err))
		}
		if res.op == opDelete {
			m.view = ListView
		}
		return m, nil
	}

	switch res.op {
	case opLoad:
		m.status = ""
	case opOpen:
		m.view = DetailView
		m.status = ""
	case opSave:
		m.view = ListView
		m.status = styles.ok.Render("✓ Saved")
	case opDelete:
		m.view = ListView
		m.status = styles.ok.Render("✓ Deleted")
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ListView:
		body = m.renderList()
	case DetailView:
		body = m.renderDetail()
	case FormView:
		body = m.renderForm()
	case ConfirmDeleteView:
		body = m.renderConfirm()
	}

	var footer []string
	if m.busy != "" {
		footer = append(footer, styles.help.Render(m.busy+"..."))
	}
	if m.status != "" {
		footer = append(footer, m.status)
	}
	if len(footer) == 0 {
		return body
	}
	return fmt.Sprintf("%s\n\n%s", body, strings.Join(footer, "\n"))
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sheetList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.sheetList.SelectedItem().(sheetItem); ok {
			return m, m.open(item.sheet.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.newSheet):
		return m, m.startForm()
	case key.Matches(msg, m.keys.del):
		if item, ok := m.sheetList.SelectedItem().(sheetItem); ok {
			m.confirmDelete(item.sheet)
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.load()
	}

	return m.updateList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.svc.ClearSelection()
	case key.Matches(msg, m.keys.del):
		if m.selected != nil {
			m.confirmDelete(*m.selected)
		}
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.svc.NewCharacterSheet.Clear()
		return m, nil
	case key.Matches(msg, m.keys.save):
		return m, m.submitForm()
	case key.Matches(msg, m.keys.enter):
		if m.focus == len(m.inputs)-1 {
			return m, m.submitForm()
		}
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.next):
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.focusField(m.focus - 1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		if m.deleting == nil {
			m.view = ListView
			return m, nil
		}
		id := m.deleting.ID
		m.deleting = nil
		return m, m.run(opDelete, func(ctx context.Context) error {
			return m.svc.DeleteCharacterSheet(ctx, id)
		})
	case key.Matches(msg, m.keys.no):
		m.deleting = nil
		if m.selected != nil {
			m.view = DetailView
		} else {
			m.view = ListView
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.sheetList, cmd = m.sheetList.Update(msg)
	return m, cmd
}

func (m *Model) confirmDelete(sheet models.CharacterSheet) {
	m.deleting = &sheet
	m.view = ConfirmDeleteView
	m.status = ""
}

// startForm opens the form on a fresh draft held by the service.
func (m *Model) startForm() tea.Cmd {
	m.inputs = make([]textinput.Model, len(models.DraftFields))
	for i, field := range models.DraftFields {
		in := textinput.New()
		in.Placeholder = field
		in.Prompt = ""
		in.CharLimit = 120
		m.inputs[i] = in
	}
	m.view = FormView
	m.status = ""

	draft := models.NewCharacterSheetDraft()
	m.fillForm(*draft)
	m.svc.EditDraft(*draft)
	return m.focusField(0)
}

func (m *Model) fillForm(draft models.CharacterSheetDraft) {
	for i, field := range models.DraftFields {
		if i >= len(m.inputs) {
			return
		}
		value, _ := draft.Get(field)
		m.inputs[i].SetValue(value)
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// submitForm copies the inputs into the draft wrapper and saves it.
func (m *Model) submitForm() tea.Cmd {
	draft := models.NewCharacterSheetDraft()
	for i, field := range models.DraftFields {
		if err := draft.Set(field, m.inputs[i].Value()); err != nil {
			m.status = styles.err.Render(err.Error())
			return nil
		}
	}
	if err := draft.Validate(); err != nil {
		m.status = styles.err.Render(err.Error())
		return nil
	}

	m.svc.EditDraft(*draft)
	return m.run(opSave, func(ctx context.Context) error {
		_, err := m.svc.SaveNewCharacterSheet(ctx)
		return err
	})
}

func (m *Model) load() tea.Cmd {
	return m.run(opLoad, m.svc.GetAllCharacterSheets)
}

func (m *Model) open(id int) tea.Cmd {
	return m.run(opOpen, func(ctx context.Context) error {
		return m.svc.GetCharacterSheetByID(ctx, id)
	})
}

// run executes fn off the update loop and reports completion as [MsgOpDone].
// State changes arrive separately as snapshot messages.
func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	m.busy = op
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg(op, fn(ctx))
	}
}

// waitForSnapshot blocks until the next wrapper emission.
func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.snapshots:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.newSheet, m.keys.del, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if len(m.sheetList.Items()) == 0 && m.busy == "" {
		title := styles.title.Render("Character Sheets")
		return fmt.Sprintf("%s\n%s\n\n%s", title, styles.help.Render("No character sheets yet. Press n to create one."), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.sheetList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.help.Render("Nothing selected")
	}
	s := m.selected

	title := styles.title.Render(formatter.Summary(*s))
	rows := []string{
		styles.label.Render("Name") + s.Name,
		styles.label.Render("Class") + s.Class,
		styles.label.Render("Level") + fmt.Sprint(s.Level),
	}
	if s.Notes != "" {
		rows = append(rows, "", styles.label.Render("Notes"), s.Notes)
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.del, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, strings.Join(rows, "\n"), helpView)
}

func (m *Model) renderForm() string {
	title := styles.title.Render("New Character Sheet")

	rows := make([]string, len(m.inputs))
	for i, field := range models.DraftFields {
		label := styles.label.Render(field)
		if i == m.focus {
			label = styles.ok.Width(8).Render(field)
		}
		rows[i] = label + m.inputs[i].View()
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.save, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, strings.Join(rows, "\n"), helpView)
}

func (m *Model) renderConfirm() string {
	if m.deleting == nil {
		return ""
	}
	title := styles.title.Render(fmt.Sprintf("Delete '%s'?", m.deleting.Name))
	info := styles.warn.Render(formatter.Summary(*m.deleting))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
