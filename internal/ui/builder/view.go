package builder

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// View renders the builder.
func (m Model) View() string {
	panel := lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(0, 1)

	if m.mode != modeView && m.form != nil {
		return panel.Padding(1, 2).Render(m.form.View())
	}
	if !m.hasActive {
		return panel.Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No roadmap selected.\n\nPress 'n' to create one.")
	}

	header := m.renderHeader()
	body := m.renderBody(m.height - lipgloss.Height(header) - 1)
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

func (m Model) renderHeader() string {
	r := m.roadmap
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(r.Name))
	if r.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(r.Description))
	}
	b.WriteString("\n")

	pct := r.OverallProgress()
	b.WriteString(m.overall.ViewAs(float64(pct) / 100))
	b.WriteString(fmt.Sprintf(" %3d%%  %d/%d milestones",
		pct, r.CompletedMilestones(), r.TotalMilestones()))
	return b.String()
}

// renderBody draws the phase tree, scrolled so the cursor stays visible.
func (m Model) renderBody(height int) string {
	if len(m.roadmap.Phases) == 0 {
		return lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).
			Render("No phases yet. Press 'p' to add one.")
	}

	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		p := m.roadmap.Phases[phaseIndex(m.roadmap.Phases, r.phaseID)]
		var line string
		if r.isPhase() {
			line = m.renderPhase(p)
		} else {
			ms := p.Milestones[milestoneIndex(p.Milestones, r.milestoneID)]
			line = renderMilestone(ms)
		}
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	start, end := window(len(lines), m.cursor, height)
	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderPhase(p model.Phase) string {
	title := theme.PhaseTitleStyle(p.Theme).
		Render(fmt.Sprintf("%s %s", model.IconGlyph(p.Icon), p.Name))
	status := theme.PhaseStatusStyle(p.Status).Render(p.Status)
	bar := lipgloss.NewStyle().Foreground(theme.PhaseColor(p.Theme)).
		Render(export.ProgressBar(p.Progress, 12))
	counts := lipgloss.NewStyle().Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%3d%% (%d/%d)", p.Progress, p.CompletedMilestones(), len(p.Milestones)))

	return fmt.Sprintf("%s %s %s %s", title, status, bar, counts)
}

func renderMilestone(ms model.Milestone) string {
	box := "[ ]"
	if ms.Completed {
		box = "[x]"
	}
	return "   " + theme.MilestoneStyle(ms.Completed).Render(box+" "+ms.Title)
}

// window returns the slice bounds of n lines of which at most height are
// shown, keeping cursor inside.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
