package upgrade

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// PlanChosenMsg is sent when the user confirms a paid plan.
type PlanChosenMsg struct {
	Plan model.PlanType
}

// ClosedMsg is sent when the user leaves without upgrading.
type ClosedMsg struct{}

type formBindings struct {
	plan    string
	confirm bool
}

// Model is the upgrade modal. It lists every plan and lets the user pick a
// paid one.
type Model struct {
	current model.PlanType
	reason  string
	form    *huh.Form
	fb      *formBindings
	width   int
	height  int
}

// New creates a new upgrade modal.
func New(width, height int) Model {
	return Model{
		current: model.PlanFree,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Open resets the modal for a new upgrade prompt. reason explains what
// the current plan does not allow and may be empty.
func (m Model) Open(current model.PlanType, reason string) (Model, tea.Cmd) {
	m.current = current
	m.reason = reason
	m.fb.plan = ""
	m.fb.confirm = true

	var opts []huh.Option[string]
	for _, p := range model.PaidPlans() {
		label := fmt.Sprintf("%s  $%d/%s", p.Name, p.Price, p.Interval)
		opts = append(opts, huh.NewOption(label, string(p.ID)))
	}
	if len(opts) > 0 {
		m.fb.plan = string(model.PaidPlans()[0].ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a plan").
				Options(opts...).
				Value(&m.fb.plan),
			huh.NewConfirm().
				Title("Upgrade now?").
				Affirmative("Upgrade").
				Negative("Not now").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
	return m, m.form.Init()
}

// Update handles messages for the modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if !m.fb.confirm || m.fb.plan == "" {
			return m, func() tea.Msg { return ClosedMsg{} }
		}
		plan := model.PlanType(m.fb.plan)
		return m, func() tea.Msg { return PlanChosenMsg{Plan: plan} }
	case huh.StateAborted:
		return m, func() tea.Msg { return ClosedMsg{} }
	}
	return m, cmd
}

// View renders the plan comparison and the form.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Upgrade your plan")

	parts := []string{title}
	if m.reason != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(m.reason))
	}
	parts = append(parts, "", m.renderPlans(), "")
	if m.form != nil {
		parts = append(parts, m.form.View())
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderPlans() string {
	cardWidth := (m.width - 12) / len(model.PricingPlans)
	if cardWidth < 20 {
		cardWidth = 20
	}

	cards := make([]string, 0, len(model.PricingPlans))
	for _, p := range model.PricingPlans {
		var b strings.Builder
		b.WriteString(theme.PlanBadgeStyle(p.ID).Render(p.Name))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("$%d/%s\n", p.Price, p.Interval))
		for _, f := range p.Features {
			b.WriteString("• " + f + "\n")
		}
		if p.ID == m.current {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("current plan"))
		}

		border := theme.ColorBorder
		if p.ID == m.current {
			border = theme.ColorGreen
		}
		cards = append(cards, theme.BorderStyle.
			BorderForeground(border).
			Width(cardWidth).
			Padding(0, 1).
			Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// SetSize updates the modal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
