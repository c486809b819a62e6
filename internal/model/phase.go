package model

// Defaults applied to a newly added phase.
const (
	DefaultPhaseName   = "New Phase"
	DefaultPhaseTheme  = ThemeBlue
	DefaultPhaseIcon   = "Target"
	DefaultPhaseStatus = "Planned"
)

// Phase is a stage of a roadmap with its own ordered milestones.
//
// Progress is derived from Milestones and must be refreshed with
// RecomputeProgress after any change to the milestone list.
type Phase struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Theme      Theme       `json:"theme" yaml:"theme"`
	Icon       string      `json:"icon" yaml:"icon"`
	Status     string      `json:"status" yaml:"status"`
	Milestones []Milestone `json:"milestones" yaml:"milestones"`
	Progress   int         `json:"progress" yaml:"progress"`
}

// NewPhase returns an empty phase with default presentation fields.
func NewPhase(id string) Phase {
	return Phase{
		ID:         id,
		Name:       DefaultPhaseName,
		Theme:      DefaultPhaseTheme,
		Icon:       DefaultPhaseIcon,
		Status:     DefaultPhaseStatus,
		Milestones: []Milestone{},
	}
}

// RecomputeProgress refreshes the derived Progress field.
func (p *Phase) RecomputeProgress() {
	p.Progress = ComputeProgress(p.Milestones)
}

// CompletedMilestones returns the number of completed milestones.
func (p Phase) CompletedMilestones() int {
	n := 0
	for _, m := range p.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}

// Clone returns a copy of the phase that shares no milestone storage.
func (p Phase) Clone() Phase {
	out := p
	out.Milestones = make([]Milestone, len(p.Milestones))
	copy(out.Milestones, p.Milestones)
	return out
}

// ClonePhases deep-copies a phase list.
func ClonePhases(phases []Phase) []Phase {
	out := make([]Phase, len(phases))
	for i, p := range phases {
		out[i] = p.Clone()
	}
	return out
}
