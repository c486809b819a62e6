// Package editor implements structural edits over the phases and milestones
// of a single roadmap.
//
// An Editor is a value: every operation returns a new revision and leaves the
// receiver untouched, so a revision handed to a view or a background save is
// never changed behind its back. Phase progress is recomputed on every change
// to a milestone list.
package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/roadmap-builder/internal/model"
)

// IDFunc produces a fresh identifier.
type IDFunc func() string

// Option configures an Editor.
type Option func(*Editor)

// WithIDFunc overrides identifier generation for new phases and milestones.
func WithIDFunc(fn IDFunc) Option {
	return func(e *Editor) {
		e.newID = fn
	}
}

// Editor holds one revision of a roadmap's phase list.
type Editor struct {
	phases []model.Phase
	newID  IDFunc
}

// New creates an editor over a copy of phases. Progress values are
// normalized on the way in.
func New(phases []model.Phase, opts ...Option) Editor {
	e := Editor{
		phases: model.ClonePhases(phases),
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&e)
	}
	for i := range e.phases {
		e.phases[i].RecomputeProgress()
	}
	return e
}

// Phases returns a copy of the current phase list.
func (e Editor) Phases() []model.Phase {
	return model.ClonePhases(e.phases)
}

// Len returns the number of phases.
func (e Editor) Len() int {
	return len(e.phases)
}

// Phase returns a copy of the phase with the given id.
func (e Editor) Phase(id string) (model.Phase, bool) {
	i := e.phaseIndex(id)
	if i < 0 {
		return model.Phase{}, false
	}
	return e.phases[i].Clone(), true
}

// AddPhase appends an empty phase with default theme, icon and status, and
// returns the new revision together with the phase id.
func (e Editor) AddPhase() (Editor, string) {
	id := e.newID()
	next := e.with(model.ClonePhases(e.phases))
	next.phases = append(next.phases, model.NewPhase(id))
	return next, id
}

// RemovePhase drops the phase with the given id. Unknown ids are ignored.
func (e Editor) RemovePhase(id string) Editor {
	i := e.phaseIndex(id)
	if i < 0 {
		return e
	}
	phases := make([]model.Phase, 0, len(e.phases)-1)
	for j, p := range e.phases {
		if j != i {
			phases = append(phases, p.Clone())
		}
	}
	return e.with(phases)
}

// UpdatePhase merges u into the phase with the given id. Unknown ids are
// ignored; an unknown theme is rejected.
func (e Editor) UpdatePhase(id string, u PhaseUpdate) (Editor, error) {
	if err := u.validate(); err != nil {
		return e, err
	}
	i := e.phaseIndex(id)
	if i < 0 {
		return e, nil
	}
	phases := model.ClonePhases(e.phases)
	u.apply(&phases[i])
	return e.with(phases), nil
}

// AddMilestone appends an uncompleted milestone with the default title to
// the given phase. The returned id is empty when the phase does not exist.
func (e Editor) AddMilestone(phaseID string) (Editor, string) {
	i := e.phaseIndex(phaseID)
	if i < 0 {
		return e, ""
	}
	id := e.newID()
	phases := model.ClonePhases(e.phases)
	phases[i].Milestones = append(phases[i].Milestones, model.Milestone{
		ID:    id,
		Title: model.DefaultMilestoneTitle,
	})
	phases[i].RecomputeProgress()
	return e.with(phases), id
}

// RemoveMilestone drops a milestone from a phase.
func (e Editor) RemoveMilestone(phaseID, milestoneID string) Editor {
	i, j := e.milestoneIndex(phaseID, milestoneID)
	if j < 0 {
		return e
	}
	phases := model.ClonePhases(e.phases)
	ms := phases[i].Milestones
	phases[i].Milestones = append(ms[:j:j], ms[j+1:]...)
	phases[i].RecomputeProgress()
	return e.with(phases)
}

// UpdateMilestone merges u into a milestone and recomputes the phase progress.
func (e Editor) UpdateMilestone(phaseID, milestoneID string, u MilestoneUpdate) Editor {
	i, j := e.milestoneIndex(phaseID, milestoneID)
	if j < 0 {
		return e
	}
	phases := model.ClonePhases(e.phases)
	u.apply(&phases[i].Milestones[j])
	phases[i].RecomputeProgress()
	return e.with(phases)
}

// ToggleMilestone flips the completion flag of a milestone.
func (e Editor) ToggleMilestone(phaseID, milestoneID string) Editor {
	i, j := e.milestoneIndex(phaseID, milestoneID)
	if j < 0 {
		return e
	}
	done := e.phases[i].Milestones[j].Completed
	return e.UpdateMilestone(phaseID, milestoneID, MilestoneUpdate{}.SetCompleted(!done))
}

// ReorderPhases moves the phase at position from to position to. All other
// phases keep their relative order.
func (e Editor) ReorderPhases(from, to int) (Editor, error) {
	phases, err := move(model.ClonePhases(e.phases), from, to)
	if err != nil {
		return e, fmt.Errorf("reordering phases: %w", err)
	}
	return e.with(phases), nil
}

// MovePhase moves the phase with the given id to position to.
func (e Editor) MovePhase(id string, to int) (Editor, error) {
	i := e.phaseIndex(id)
	if i < 0 {
		return e, nil
	}
	return e.ReorderPhases(i, to)
}

// ReorderMilestones moves a milestone within one phase from position from
// to position to.
func (e Editor) ReorderMilestones(phaseID string, from, to int) (Editor, error) {
	i := e.phaseIndex(phaseID)
	if i < 0 {
		return e, nil
	}
	phases := model.ClonePhases(e.phases)
	ms, err := move(phases[i].Milestones, from, to)
	if err != nil {
		return e, fmt.Errorf("reordering milestones of phase %s: %w", phaseID, err)
	}
	phases[i].Milestones = ms
	return e.with(phases), nil
}

// MoveMilestone moves the milestone with the given id to position to
// within its phase.
func (e Editor) MoveMilestone(phaseID, milestoneID string, to int) (Editor, error) {
	_, j := e.milestoneIndex(phaseID, milestoneID)
	if j < 0 {
		return e, nil
	}
	return e.ReorderMilestones(phaseID, j, to)
}

func (e Editor) with(phases []model.Phase) Editor {
	return Editor{phases: phases, newID: e.newID}
}

func (e Editor) phaseIndex(id string) int {
	for i, p := range e.phases {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (e Editor) milestoneIndex(phaseID, milestoneID string) (int, int) {
	i := e.phaseIndex(phaseID)
	if i < 0 {
		return -1, -1
	}
	for j, m := range e.phases[i].Milestones {
		if m.ID == milestoneID {
			return i, j
		}
	}
	return i, -1
}

// move relocates s[from] to index to, shifting the elements in between.
// s is modified in place and returned.
func move[T any](s []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) {
		return s, fmt.Errorf("move %d -> %d in list of %d: %w", from, to, len(s), ErrIndexOutOfRange)
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
	return s, nil
}
