package roadmaplist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/theme"
)

// RoadmapItem wraps a model.Roadmap so it can be used in a bubbles/list.
type RoadmapItem struct {
	Roadmap model.Roadmap
	Active  bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i RoadmapItem) FilterValue() string { return i.Roadmap.Name }

// Title returns the roadmap name for the list.
func (i RoadmapItem) Title() string { return i.Roadmap.Name }

// Description returns a short summary line for the list.
func (i RoadmapItem) Description() string {
	return fmt.Sprintf("%d phases | %d%% | %s",
		len(i.Roadmap.Phases),
		i.Roadmap.OverallProgress(),
		relativeTime(i.Roadmap.UpdatedAt, time.Now()),
	)
}

// ItemDelegate implements list.ItemDelegate for rendering roadmap rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a roadmap name line followed by its summary line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(RoadmapItem)
	if !ok {
		return
	}

	marker := "○"
	if ri.Active {
		marker = "●"
	}
	name := fmt.Sprintf("%s %s", marker, ri.Roadmap.Name)
	summary := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + ri.Description())

	if index == m.Index() {
		name = theme.SelectedItemStyle.Render(name)
	} else {
		name = theme.ListItemStyle.Render(name)
	}

	fmt.Fprint(w, name+"\n"+theme.ListItemStyle.Render(summary))
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 02")
	}
}
