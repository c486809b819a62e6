package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/theme"
)

// SignInMsg is sent when the user submits a display name.
type SignInMsg struct {
	Name string
}

type formBindings struct {
	name string
}

// Model is the sign-in screen shown while no session exists.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	err    string
	width  int
	height int
}

// New creates a new sign-in screen.
func New(width, height int) Model {
	m := Model{fb: &formBindings{}, width: width, height: height}
	m.form = m.buildForm()
	return m
}

// Reset clears the form so a new user can sign in.
func (m Model) Reset() (Model, tea.Cmd) {
	m.fb.name = ""
	m.err = ""
	m.form = m.buildForm()
	return m, m.form.Init()
}

// SetError shows a sign-in failure under the form.
func (m *Model) SetError(err error) {
	m.err = err.Error()
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your name").
				Description("Roadmaps are saved under this name on this machine.").
				Placeholder("Anonymous").
				Value(&m.fb.name),
		),
	).WithWidth(48)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the sign-in form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		name := strings.TrimSpace(m.fb.name)
		m.form = m.buildForm()
		return m, tea.Batch(
			m.form.Init(),
			func() tea.Msg { return SignInMsg{Name: name} },
		)
	case huh.StateAborted:
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the sign-in screen.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render("Roadmap Builder")
	sub := lipgloss.NewStyle().Foreground(theme.ColorGray).
		Render("Sign in to start planning.")

	parts := []string{title, sub, "", m.form.View()}
	if m.err != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.err))
	}

	box := theme.DetailPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
