package editor

import "github.com/nhle/roadmap-builder/internal/model"

// PhaseUpdate is a partial update to the editable fields of a phase.
// Fields that were never set are left untouched when applied.
type PhaseUpdate struct {
	name   *string
	theme  *model.Theme
	icon   *string
	status *string
}

// SetName returns a copy of u that renames the phase.
func (u PhaseUpdate) SetName(name string) PhaseUpdate {
	u.name = &name
	return u
}

// SetTheme returns a copy of u that changes the phase theme.
func (u PhaseUpdate) SetTheme(theme model.Theme) PhaseUpdate {
	u.theme = &theme
	return u
}

// SetIcon returns a copy of u that changes the phase icon.
func (u PhaseUpdate) SetIcon(icon string) PhaseUpdate {
	u.icon = &icon
	return u
}

// SetStatus returns a copy of u that changes the status label.
func (u PhaseUpdate) SetStatus(status string) PhaseUpdate {
	u.status = &status
	return u
}

func (u PhaseUpdate) validate() error {
	if u.theme != nil && !u.theme.Valid() {
		return ErrInvalidTheme
	}
	return nil
}

func (u PhaseUpdate) apply(p *model.Phase) {
	if u.name != nil {
		p.Name = *u.name
	}
	if u.theme != nil {
		p.Theme = *u.theme
	}
	if u.icon != nil {
		p.Icon = *u.icon
	}
	if u.status != nil {
		p.Status = *u.status
	}
}

// MilestoneUpdate is a partial update to the editable fields of a milestone.
type MilestoneUpdate struct {
	title     *string
	completed *bool
}

// SetTitle returns a copy of u that changes the milestone title.
func (u MilestoneUpdate) SetTitle(title string) MilestoneUpdate {
	u.title = &title
	return u
}

// SetCompleted returns a copy of u that changes the completion flag.
func (u MilestoneUpdate) SetCompleted(completed bool) MilestoneUpdate {
	u.completed = &completed
	return u
}

func (u MilestoneUpdate) apply(m *model.Milestone) {
	if u.title != nil {
		m.Title = *u.title
	}
	if u.completed != nil {
		m.Completed = *u.completed
	}
}
