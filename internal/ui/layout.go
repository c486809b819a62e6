package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/theme"
)

// Layout manages the header, the roadmap sidebar, the builder panel and
// the status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// SidebarWidth returns the outer width of the roadmap sidebar: a quarter
// of the screen, kept between 26 and 40 columns.
func (l Layout) SidebarWidth() int {
	s := l.Width / 4
	if s < 26 {
		s = 26
	}
	if s > 40 {
		s = 40
	}
	return s
}

// PanelSizes returns the inner sizes of the sidebar and builder panels,
// leaving room for their borders.
func (l Layout) PanelSizes() (sideW, mainW, h int) {
	side := l.SidebarWidth()
	return side - 2, l.ContentWidth() - side - 2, l.ContentHeight() - 2
}

// RenderPanels frames the sidebar and builder side by side and highlights
// the focused one.
func (l Layout) RenderPanels(sidebar, main string, sidebarFocused bool) string {
	left := panelStyle(sidebarFocused).Render(sidebar)
	right := panelStyle(!sidebarFocused).Render(main)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func panelStyle(focused bool) lipgloss.Style {
	if focused {
		return theme.BorderStyle.BorderForeground(theme.ColorBlue)
	}
	return theme.BorderStyle
}

// RenderHeader renders the top bar with the title on the left and the
// plan and save status on the right.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints or a
// transient message.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.MaxWidth(l.Width).Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame stacks the header, content area and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
