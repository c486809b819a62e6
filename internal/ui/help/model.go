// Package help renders the keyboard reference and the current plan's
// entitlements.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/keys"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// section is one titled column of bindings.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay view.
type Model struct {
	keys     *keys.KeyMap
	help     help.Model
	plan     model.PlanType
	commands []string
	width    int
	height   int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	return Model{
		keys:   k,
		help:   h,
		plan:   model.PlanFree,
		width:  width,
		height: height,
	}
}

// SetPlan sets the plan summarized under the shortcuts.
func (m *Model) SetPlan(plan model.PlanType) {
	m.plan = plan
}

// SetCommands sets the palette commands listed at the bottom.
func (m *Model) SetCommands(commands []string) {
	m.commands = commands
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) sections() []section {
	groups := m.keys.FullHelp()
	titles := []string{"Navigate", "Roadmaps", "Phases & milestones", "Plan"}
	out := make([]section, 0, len(groups))
	for i, g := range groups {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		out = append(out, section{title: title, bindings: g})
	}
	return out
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)

	colWidth := (m.width - 8) / 2
	if colWidth < 20 {
		colWidth = 20
	}

	var cols []string
	for _, s := range m.sections() {
		m.help.Width = colWidth
		body := m.help.FullHelpView([][]key.Binding{s.bindings})
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).MarginBottom(1).
			Render(sectionStyle.Render(s.title)+"\n"+body))
	}

	var rows []string
	for i := 0; i < len(cols); i += 2 {
		if i+1 < len(cols) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols[i], cols[i+1]))
		} else {
			rows = append(rows, cols[i])
		}
	}

	parts := []string{titleStyle.Render("Keyboard Shortcuts")}
	parts = append(parts, rows...)
	parts = append(parts, m.planSummary())
	if len(m.commands) > 0 {
		parts = append(parts, theme.HelpStyle.Render("Commands (:): "+strings.Join(m.commands, ", ")))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// planSummary describes what the current plan allows.
func (m Model) planSummary() string {
	p, ok := model.LookupPlan(m.plan)
	if !ok {
		return ""
	}
	roadmaps := "unlimited roadmaps"
	if p.Limits.MaxRoadmaps != model.Unlimited {
		roadmaps = fmt.Sprintf("%d roadmap(s)", p.Limits.MaxRoadmaps)
	}
	exports := "no export"
	if p.Limits.Export {
		exports = "Markdown/YAML export"
	}
	return theme.PlanBadgeStyle(p.ID).Render(p.Name) + " " +
		theme.HelpStyle.Render(fmt.Sprintf("%s, %s", roadmaps, exports))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
