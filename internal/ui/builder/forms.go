package builder

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/roadmap-builder/internal/editor"
	"github.com/nhle/roadmap-builder/internal/model"
)

// statusSuggestions are offered while typing a phase status. Any label is
// accepted.
var statusSuggestions = []string{"Planned", "In Progress", "Completed", "Blocked"}

func (m Model) startPhaseForm(phaseID string) (Model, tea.Cmd) {
	pi := phaseIndex(m.roadmap.Phases, phaseID)
	if pi < 0 {
		return m, nil
	}
	p := m.roadmap.Phases[pi]

	m.fb.name = p.Name
	m.fb.theme = string(p.Theme)
	m.fb.icon = p.Icon
	m.fb.status = p.Status
	m.editPhase = phaseID
	m.editMilestone = ""

	themeOpts := make([]huh.Option[string], len(model.Themes))
	for i, t := range model.Themes {
		themeOpts[i] = huh.NewOption(string(t), string(t))
	}
	iconOpts := make([]huh.Option[string], len(model.Icons))
	for i, name := range model.Icons {
		iconOpts[i] = huh.NewOption(model.IconGlyph(name)+"  "+name, name)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Phase name").
				Placeholder(model.DefaultPhaseName).
				Value(&m.fb.name),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&m.fb.theme),
			huh.NewSelect[string]().
				Title("Icon").
				Options(iconOpts...).
				Height(6).
				Value(&m.fb.icon),
			huh.NewInput().
				Title("Status").
				Suggestions(statusSuggestions).
				Value(&m.fb.status),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
	m.mode = modePhaseForm
	return m, m.form.Init()
}

func (m Model) startMilestoneForm(phaseID, milestoneID string) (Model, tea.Cmd) {
	pi := phaseIndex(m.roadmap.Phases, phaseID)
	if pi < 0 {
		return m, nil
	}
	mi := milestoneIndex(m.roadmap.Phases[pi].Milestones, milestoneID)
	if mi < 0 {
		return m, nil
	}
	ms := m.roadmap.Phases[pi].Milestones[mi]

	m.fb.title = ms.Title
	m.fb.completed = ms.Completed
	m.editPhase = phaseID
	m.editMilestone = milestoneID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Milestone").
				Placeholder(model.DefaultMilestoneTitle).
				Value(&m.fb.title),
			huh.NewConfirm().
				Title("Completed?").
				Affirmative("Done").
				Negative("Open").
				Value(&m.fb.completed),
		),
	).WithWidth(m.formWidth())
	m.mode = modeMilestoneForm
	return m, m.form.Init()
}

func (m Model) startConfirmRemove(phaseID string) (Model, tea.Cmd) {
	pi := phaseIndex(m.roadmap.Phases, phaseID)
	if pi < 0 {
		return m, nil
	}
	p := m.roadmap.Phases[pi]

	m.fb.confirm = false
	m.editPhase = phaseID
	m.editMilestone = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove phase %q?", p.Name)).
				Description(fmt.Sprintf("Its %d milestones are removed too.", len(p.Milestones))).
				Affirmative("Yes, remove").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
	m.mode = modeConfirmRemove
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeView
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.mode = modeView
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		done := m.mode
		m.mode = modeView
		return m, m.submit(done)
	case huh.StateAborted:
		m.mode = modeView
		return m, nil
	}
	return m, cmd
}

// submit turns the completed form into an edit request.
func (m Model) submit(done mode) tea.Cmd {
	phaseID := m.editPhase
	milestoneID := m.editMilestone

	switch done {
	case modePhaseForm:
		u := editor.PhaseUpdate{}.
			SetName(strings.TrimSpace(m.fb.name)).
			SetTheme(model.Theme(m.fb.theme)).
			SetIcon(m.fb.icon).
			SetStatus(strings.TrimSpace(m.fb.status))
		return edit("update phase", func(e editor.Editor) (editor.Editor, error) {
			return e.UpdatePhase(phaseID, u)
		})

	case modeMilestoneForm:
		u := editor.MilestoneUpdate{}.
			SetTitle(strings.TrimSpace(m.fb.title)).
			SetCompleted(m.fb.completed)
		return edit("update milestone", func(e editor.Editor) (editor.Editor, error) {
			return e.UpdateMilestone(phaseID, milestoneID, u), nil
		})

	case modeConfirmRemove:
		if !m.fb.confirm {
			return nil
		}
		return edit("remove phase", func(e editor.Editor) (editor.Editor, error) {
			return e.RemovePhase(phaseID), nil
		})
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
