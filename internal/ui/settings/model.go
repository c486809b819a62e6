package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// previewStyles are the glamour styles offered for export previews.
var previewStyles = []string{"dark", "light", "dracula", "tokyo-night", "pink", "ascii", "notty"}

var logLevels = []string{"debug", "info", "warn", "error"}

// SavedMsg is sent after the configuration was written to disk.
type SavedMsg struct {
	Config model.AppConfig
}

// ClosedMsg is sent when the settings view is dismissed.
type ClosedMsg struct{}

// saveResultMsg carries the outcome of writing the config file.
type saveResultMsg struct {
	cfg model.AppConfig
	err error
}

type formBindings struct {
	style     string
	exportDir string
	logLevel  string
}

// Model edits the user-facing parts of the application config.
type Model struct {
	path   string
	cfg    model.AppConfig
	form   *huh.Form
	fb     *formBindings
	status string
	width  int
	height int
}

// New creates a settings view that saves to path.
func New(path string, cfg model.AppConfig, width, height int) Model {
	return Model{
		path:   path,
		cfg:    cfg,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init opens the form with the current values.
func (m Model) Init() tea.Cmd {
	return nil
}

// Open resets the form to the current configuration.
func (m Model) Open() (Model, tea.Cmd) {
	m.fb.style = m.cfg.Display.Theme
	m.fb.exportDir = m.cfg.Export.Dir
	m.fb.logLevel = m.cfg.Log.Level
	m.status = ""
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Preview style").
				Options(huh.NewOptions(previewStyles...)...).
				Value(&m.fb.style),
			huh.NewInput().
				Title("Export directory").
				Placeholder(".").
				Value(&m.fb.exportDir),
			huh.NewSelect[string]().
				Title("Log level").
				Description("Takes effect on next start.").
				Options(huh.NewOptions(logLevels...)...).
				Value(&m.fb.logLevel),
		),
	).WithWidth(m.formWidth())
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if res, ok := msg.(saveResultMsg); ok {
		if res.err != nil {
			m.status = fmt.Sprintf("Error saving settings: %v", res.err)
			return m, nil
		}
		m.cfg = res.cfg
		return m, func() tea.Msg { return SavedMsg{Config: res.cfg} }
	}

	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.save()
	case huh.StateAborted:
		return m, func() tea.Msg { return ClosedMsg{} }
	}
	return m, cmd
}

func (m Model) save() tea.Cmd {
	cfg := m.cfg
	cfg.Display.Theme = m.fb.style
	cfg.Log.Level = m.fb.logLevel
	if dir := strings.TrimSpace(m.fb.exportDir); dir != "" {
		cfg.Export.Dir = dir
	}
	path := m.path
	return func() tea.Msg {
		return saveResultMsg{cfg: cfg, err: model.SaveConfig(path, &cfg)}
	}
}

// View renders the settings form.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render("Settings")
	parts := []string{title}
	if m.form != nil {
		parts = append(parts, m.form.View())
	}
	if m.status != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.status))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorGray).Render(m.path))

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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
