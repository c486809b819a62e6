package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps overlays and the builder panel.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// PhaseColor returns the accent color for a phase theme.
func PhaseColor(t model.Theme) lipgloss.AdaptiveColor {
	switch t {
	case model.ThemeGreen:
		return ColorGreen
	case model.ThemePurple:
		return ColorMagenta
	case model.ThemeGold:
		return ColorYellow
	case model.ThemeBlue:
		return ColorBlue
	case model.ThemeRed:
		return ColorRed
	case model.ThemeOrange:
		return ColorOrange
	default:
		return ColorGray
	}
}

// PhaseTitleStyle renders a phase heading in its theme color.
func PhaseTitleStyle(t model.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(PhaseColor(t))
}

// PhaseStatusStyle returns a badge style for a phase status label.
func PhaseStatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "Completed":
		return base.Foreground(ColorGreen)
	case "In Progress":
		return base.Foreground(ColorYellow)
	case "Planned":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// PlanBadgeStyle returns a color-coded style for a subscription plan.
func PlanBadgeStyle(plan model.PlanType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch plan {
	case model.PlanMonthly:
		return base.Foreground(ColorBlue)
	case model.PlanYearly:
		return base.Foreground(ColorMagenta)
	default:
		return base.Foreground(ColorGray)
	}
}

// MilestoneStyle dims completed milestones.
func MilestoneStyle(completed bool) lipgloss.Style {
	if completed {
		return lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
	}
	return lipgloss.NewStyle().Foreground(ColorWhite)
}

// ErrorStyle is used for inline error messages.
var ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
