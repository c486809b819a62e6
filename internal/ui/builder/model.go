// Package builder is the phase and milestone editor panel for the active
// roadmap. It never mutates state itself: every change is sent to the app
// as an EditMsg and comes back through SetRoadmap.
package builder

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/roadmap-builder/internal/editor"
	"github.com/nhle/roadmap-builder/internal/keys"
	"github.com/nhle/roadmap-builder/internal/model"
)

// EditFunc derives the next editor revision from the current one.
type EditFunc func(editor.Editor) (editor.Editor, error)

// EditMsg asks the app to apply Apply to the active roadmap. When Focus is
// non-nil the cursor moves to the id it holds once the edit is applied.
type EditMsg struct {
	Label string
	Apply EditFunc
	Focus *string
}

type mode int

const (
	modeView mode = iota
	modePhaseForm
	modeMilestoneForm
	modeConfirmRemove
)

// row is one cursor stop: a phase header or one of its milestones.
type row struct {
	phaseID     string
	milestoneID string
}

func (r row) isPhase() bool { return r.milestoneID == "" }

// formBindings holds form field values on the heap so that pointers
// remain valid across bubbletea's value-copy semantics.
type formBindings struct {
	name      string
	theme     string
	icon      string
	status    string
	title     string
	completed bool
	confirm   bool
}

// Model is the builder panel.
type Model struct {
	roadmap   model.Roadmap
	hasActive bool
	rows      []row
	cursor    int

	mode          mode
	form          *huh.Form
	fb            *formBindings
	editPhase     string
	editMilestone string

	overall progress.Model
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates a new builder panel.
func New(k *keys.KeyMap, width, height int) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = barWidth(width)

	return Model{
		fb:      &formBindings{},
		overall: bar,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRoadmap shows r. The cursor stays on the same phase or milestone
// when it still exists.
func (m *Model) SetRoadmap(r model.Roadmap, ok bool) {
	var current row
	if m.cursor < len(m.rows) {
		current = m.rows[m.cursor]
	}

	switched := r.ID != m.roadmap.ID
	m.roadmap = r
	m.hasActive = ok
	m.rows = buildRows(r.Phases)

	switch {
	case switched:
		m.cursor = 0
	case m.focusRow(current):
	default:
		// The row under the cursor is gone; land on the one above it.
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampCursor()
	}
}

// ClearRoadmap shows the empty state.
func (m *Model) ClearRoadmap() {
	m.SetRoadmap(model.Roadmap{}, false)
}

// FocusID moves the cursor to the phase or milestone with id.
func (m *Model) FocusID(id string) {
	for i, r := range m.rows {
		if (r.isPhase() && r.phaseID == id) || r.milestoneID == id {
			m.cursor = i
			return
		}
	}
}

// Cursor returns the phase and milestone ids under the cursor. The
// milestone id is empty on a phase row.
func (m Model) Cursor() (phaseID, milestoneID string) {
	if m.cursor >= len(m.rows) {
		return "", ""
	}
	r := m.rows[m.cursor]
	return r.phaseID, r.milestoneID
}

// InForm reports whether a form currently owns keyboard input.
func (m Model) InForm() bool {
	return m.mode != modeView
}

// Update handles messages for the builder.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode != modeView {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case progress.FrameMsg:
		mdl, cmd := m.overall.Update(msg)
		if p, ok := mdl.(progress.Model); ok {
			m.overall = p
		}
		return m, cmd

	case tea.KeyMsg:
		if !m.hasActive {
			return m, nil
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	phaseID, milestoneID := m.Cursor()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.AddPhase):
		return m, addPhase()

	case key.Matches(msg, m.keys.AddMilestone):
		if phaseID == "" {
			return m, nil
		}
		return m, addMilestone(phaseID)

	case key.Matches(msg, m.keys.Toggle):
		if milestoneID == "" {
			return m, nil
		}
		return m, edit("toggle milestone", func(e editor.Editor) (editor.Editor, error) {
			return e.ToggleMilestone(phaseID, milestoneID), nil
		})

	case key.Matches(msg, m.keys.Edit):
		if phaseID == "" {
			return m, nil
		}
		if milestoneID == "" {
			return m.startPhaseForm(phaseID)
		}
		return m.startMilestoneForm(phaseID, milestoneID)

	case key.Matches(msg, m.keys.Remove):
		if phaseID == "" {
			return m, nil
		}
		if milestoneID == "" {
			return m.startConfirmRemove(phaseID)
		}
		return m, edit("remove milestone", func(e editor.Editor) (editor.Editor, error) {
			return e.RemoveMilestone(phaseID, milestoneID), nil
		})

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.move(phaseID, milestoneID, -1)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.move(phaseID, milestoneID, 1)
	}
	return m, nil
}

// move shifts the item under the cursor by delta positions among its
// siblings. Moves past either end are ignored.
func (m Model) move(phaseID, milestoneID string, delta int) tea.Cmd {
	if phaseID == "" {
		return nil
	}

	pi := phaseIndex(m.roadmap.Phases, phaseID)
	if pi < 0 {
		return nil
	}

	if milestoneID == "" {
		to := pi + delta
		if to < 0 || to >= len(m.roadmap.Phases) {
			return nil
		}
		return edit("move phase", func(e editor.Editor) (editor.Editor, error) {
			return e.MovePhase(phaseID, to)
		})
	}

	mi := milestoneIndex(m.roadmap.Phases[pi].Milestones, milestoneID)
	to := mi + delta
	if mi < 0 || to < 0 || to >= len(m.roadmap.Phases[pi].Milestones) {
		return nil
	}
	return edit("move milestone", func(e editor.Editor) (editor.Editor, error) {
		return e.MoveMilestone(phaseID, milestoneID, to)
	})
}

func addPhase() tea.Cmd {
	focus := new(string)
	return func() tea.Msg {
		return EditMsg{
			Label: "add phase",
			Apply: func(e editor.Editor) (editor.Editor, error) {
				next, id := e.AddPhase()
				*focus = id
				return next, nil
			},
			Focus: focus,
		}
	}
}

func addMilestone(phaseID string) tea.Cmd {
	focus := new(string)
	return func() tea.Msg {
		return EditMsg{
			Label: "add milestone",
			Apply: func(e editor.Editor) (editor.Editor, error) {
				next, id := e.AddMilestone(phaseID)
				*focus = id
				return next, nil
			},
			Focus: focus,
		}
	}
}

// AddPhase returns a command that appends a phase to the shown roadmap.
func (m Model) AddPhase() tea.Cmd {
	if !m.hasActive {
		return nil
	}
	return addPhase()
}

func edit(label string, fn EditFunc) tea.Cmd {
	return func() tea.Msg {
		return EditMsg{Label: label, Apply: fn}
	}
}

// SetSize updates the builder dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.overall.Width = barWidth(width)
}

func (m *Model) focusRow(target row) bool {
	if target == (row{}) {
		return false
	}
	for i, r := range m.rows {
		if r == target {
			m.cursor = i
			return true
		}
	}
	return false
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func buildRows(phases []model.Phase) []row {
	var rows []row
	for _, p := range phases {
		rows = append(rows, row{phaseID: p.ID})
		for _, ms := range p.Milestones {
			rows = append(rows, row{phaseID: p.ID, milestoneID: ms.ID})
		}
	}
	return rows
}

func phaseIndex(phases []model.Phase, id string) int {
	for i, p := range phases {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func milestoneIndex(milestones []model.Milestone, id string) int {
	for i, ms := range milestones {
		if ms.ID == id {
			return i
		}
	}
	return -1
}

func barWidth(width int) int {
	w := width - 20
	if w < 10 {
		w = 10
	}
	if w > 60 {
		w = 60
	}
	return w
}
