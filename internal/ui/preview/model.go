package preview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/keys"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// ClosedMsg is sent when the preview is dismissed.
type ClosedMsg struct{}

// Model shows a rendered Markdown export in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	keys     *keys.KeyMap
	style    string
	markdown string
	err      error
	width    int
	height   int
}

// New creates a new preview view. style is a glamour style name.
func New(k *keys.KeyMap, style string, width, height int) Model {
	vp := viewport.New(width-4, height-4)
	return Model{
		viewport: vp,
		keys:     k,
		style:    style,
		width:    width,
		height:   height,
	}
}

// SetMarkdown renders md into the viewport and scrolls to the top.
func (m *Model) SetMarkdown(md string) {
	m.markdown = md
	m.render()
	m.viewport.GotoTop()
}

func (m *Model) render() {
	out, err := export.Preview(m.markdown, m.style, m.viewport.Width)
	m.err = err
	if err != nil {
		m.viewport.SetContent(m.markdown)
		return
	}
	m.viewport.SetContent(out)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and closing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the preview.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Export preview")
	parts := []string{title}
	if m.err != nil {
		parts = append(parts, theme.ErrorStyle.Render("render failed: "+m.err.Error()))
	}
	parts = append(parts, m.viewport.View())

	return theme.DetailPanelStyle.
		Width(m.width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the preview dimensions and re-renders for the new width.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = height - 6
	if m.markdown != "" {
		m.render()
	}
}
