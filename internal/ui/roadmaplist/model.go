package roadmaplist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/keys"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// SelectedRoadmapMsg is sent when the user opens a roadmap.
type SelectedRoadmapMsg struct {
	ID string
}

// CreateRoadmapMsg asks the app to create a roadmap.
type CreateRoadmapMsg struct {
	Name        string
	Description string
}

// RenameRoadmapMsg asks the app to rename a roadmap.
type RenameRoadmapMsg struct {
	ID          string
	Name        string
	Description string
}

// DeleteRoadmapMsg asks the app to delete a roadmap.
type DeleteRoadmapMsg struct {
	ID string
}

// UpgradeRequiredMsg is sent when the user tries to create a roadmap the
// current plan does not allow.
type UpgradeRequiredMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// formBindings holds form field values on the heap so that pointers
// remain valid across bubbletea's value-copy semantics.
type formBindings struct {
	name        string
	description string
	confirm     bool
}

// Model is the roadmap sidebar.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	mode        mode
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	editingID   string
	canCreate   bool
	width       int
	height      int
}

// New creates a new roadmap sidebar.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Roadmaps"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:      l,
		keys:      k,
		fb:        &formBindings{},
		canCreate: true,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRoadmaps replaces the listed roadmaps. The cursor follows activeID
// when it is listed.
func (m *Model) SetRoadmaps(roadmaps []model.Roadmap, activeID string, canCreate bool) tea.Cmd {
	m.canCreate = canCreate

	items := make([]list.Item, len(roadmaps))
	cursor := -1
	for i, r := range roadmaps {
		items[i] = RoadmapItem{Roadmap: r, Active: r.ID == activeID}
		if r.ID == activeID {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	if cursor >= 0 {
		m.list.Select(cursor)
	}
	return cmd
}

// Selected returns the roadmap under the cursor.
func (m Model) Selected() (model.Roadmap, bool) {
	item, ok := m.list.SelectedItem().(RoadmapItem)
	if !ok {
		return model.Roadmap{}, false
	}
	return item.Roadmap, true
}

// InForm reports whether a form currently owns keyboard input.
func (m Model) InForm() bool {
	return m.mode != modeList
}

// StartCreate opens the new roadmap form, or requests an upgrade when the
// plan is at its limit.
func (m Model) StartCreate() (Model, tea.Cmd) {
	if !m.canCreate {
		return m, func() tea.Msg { return UpgradeRequiredMsg{} }
	}
	m.editingID = ""
	m.fb.name = ""
	m.fb.description = ""
	m.form = m.buildForm("New roadmap")
	m.mode = modeForm
	return m, m.form.Init()
}

// StartRename opens the rename form for the roadmap under the cursor.
func (m Model) StartRename() (Model, tea.Cmd) {
	r, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.editingID = r.ID
	m.fb.name = r.Name
	m.fb.description = r.Description
	m.form = m.buildForm("Rename roadmap")
	m.mode = modeForm
	return m, m.form.Init()
}

// StartDelete asks for confirmation before deleting the roadmap under the
// cursor.
func (m Model) StartDelete() (Model, tea.Cmd) {
	if _, ok := m.Selected(); !ok {
		return m, nil
	}
	m.fb.confirm = false
	m.confirmForm = m.buildConfirmForm()
	m.mode = modeConfirmDelete
	return m, m.confirmForm.Init()
}

// Update handles messages for the sidebar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode != modeList {
		return m.updateActiveForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			r, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return SelectedRoadmapMsg{ID: r.ID} }
		case key.Matches(msg, m.keys.NewRoadmap):
			return m.StartCreate()
		case key.Matches(msg, m.keys.Rename):
			return m.StartRename()
		case key.Matches(msg, m.keys.Delete):
			return m.StartDelete()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) buildForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(model.DefaultRoadmapName).
				Value(&m.fb.name),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if r, ok := m.Selected(); ok {
		name = r.Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete roadmap %q?", name)).
				Description("All phases and milestones in it are removed.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.mode = modeList
		name := strings.TrimSpace(m.fb.name)
		desc := strings.TrimSpace(m.fb.description)
		if m.editingID == "" {
			return m, func() tea.Msg { return CreateRoadmapMsg{Name: name, Description: desc} }
		}
		id := m.editingID
		return m, func() tea.Msg { return RenameRoadmapMsg{ID: id, Name: name, Description: desc} }
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.mode = modeList
		if r, ok := m.Selected(); ok && m.fb.confirm {
			return m, func() tea.Msg { return DeleteRoadmapMsg{ID: r.ID} }
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.mode = modeList
		return m, nil
	}
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the sidebar.
func (m Model) View() string {
	style := lipgloss.NewStyle().Width(m.width).Height(m.height)

	switch m.mode {
	case modeForm:
		return style.Padding(1, 1).Render(m.form.View())
	case modeConfirmDelete:
		return style.Padding(1, 1).Render(m.confirmForm.View())
	}

	if len(m.list.Items()) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).
			Render("No roadmaps yet.\nPress 'n' to create one.")
		return style.Padding(1, 1).Render(empty)
	}
	return style.Render(m.list.View())
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

func (m Model) formWidth() int {
	w := m.width - 2
	if w < 24 {
		w = 24
	}
	return w
}
