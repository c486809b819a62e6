package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/roadmap-builder/internal/model"
)

func sequentialIDs() Option {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func phaseIDs(e Editor) []string {
	var ids []string
	for _, p := range e.Phases() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestAddPhaseDefaults(t *testing.T) {
	e, id := New(nil, sequentialIDs()).AddPhase()

	p, ok := e.Phase(id)
	require.True(t, ok)
	assert.Equal(t, model.DefaultPhaseName, p.Name)
	assert.Equal(t, model.ThemeBlue, p.Theme)
	assert.Equal(t, "Target", p.Icon)
	assert.Equal(t, "Planned", p.Status)
	assert.Empty(t, p.Milestones)
	assert.Equal(t, 0, p.Progress)
}

func TestProgressFollowsMilestones(t *testing.T) {
	e, pid := New(nil, sequentialIDs()).AddPhase()
	e, m1 := e.AddMilestone(pid)
	e, m2 := e.AddMilestone(pid)
	e, m3 := e.AddMilestone(pid)

	p, _ := e.Phase(pid)
	assert.Equal(t, 0, p.Progress)

	e = e.ToggleMilestone(pid, m1)
	p, _ = e.Phase(pid)
	assert.Equal(t, 33, p.Progress)

	e = e.ToggleMilestone(pid, m2)
	p, _ = e.Phase(pid)
	assert.Equal(t, 67, p.Progress)

	e = e.UpdateMilestone(pid, m3, MilestoneUpdate{}.SetCompleted(true))
	p, _ = e.Phase(pid)
	assert.Equal(t, 100, p.Progress)

	e = e.RemoveMilestone(pid, m3)
	p, _ = e.Phase(pid)
	assert.Equal(t, 100, p.Progress)
	assert.Len(t, p.Milestones, 2)

	e = e.RemoveMilestone(pid, m1).RemoveMilestone(pid, m2)
	p, _ = e.Phase(pid)
	assert.Empty(t, p.Milestones)
	assert.Equal(t, 0, p.Progress)
}

func TestNewMilestoneDefaults(t *testing.T) {
	e, pid := New(nil).AddPhase()
	e, mid := e.AddMilestone(pid)

	p, _ := e.Phase(pid)
	require.Len(t, p.Milestones, 1)
	assert.Equal(t, mid, p.Milestones[0].ID)
	assert.Equal(t, model.DefaultMilestoneTitle, p.Milestones[0].Title)
	assert.False(t, p.Milestones[0].Completed)
}

func TestAddMilestoneUnknownPhase(t *testing.T) {
	e, _ := New(nil).AddPhase()
	next, id := e.AddMilestone("missing")

	assert.Empty(t, id)
	assert.Equal(t, e.Phases(), next.Phases())
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	e, pid := New(nil, sequentialIDs()).AddPhase()
	e, _ = e.AddMilestone(pid)
	before := e.Phases()

	assert.Equal(t, before, e.RemovePhase("missing").Phases())
	assert.Equal(t, before, e.RemoveMilestone(pid, "missing").Phases())
	assert.Equal(t, before, e.RemoveMilestone("missing", "missing").Phases())
	assert.Equal(t, before, e.ToggleMilestone(pid, "missing").Phases())
	assert.Equal(t, before, e.UpdateMilestone(pid, "missing", MilestoneUpdate{}.SetTitle("x")).Phases())

	next, err := e.UpdatePhase("missing", PhaseUpdate{}.SetName("x"))
	require.NoError(t, err)
	assert.Equal(t, before, next.Phases())
}

func TestUpdatePhaseIsPartial(t *testing.T) {
	e, pid := New(nil).AddPhase()

	e, err := e.UpdatePhase(pid, PhaseUpdate{}.SetName("Launch").SetTheme(model.ThemeGold))
	require.NoError(t, err)

	p, _ := e.Phase(pid)
	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, model.ThemeGold, p.Theme)
	assert.Equal(t, "Target", p.Icon)
	assert.Equal(t, "Planned", p.Status)
}

func TestUpdatePhaseRejectsInvalidTheme(t *testing.T) {
	e, pid := New(nil).AddPhase()

	next, err := e.UpdatePhase(pid, PhaseUpdate{}.SetName("x").SetTheme("teal"))
	require.ErrorIs(t, err, ErrInvalidTheme)

	p, _ := next.Phase(pid)
	assert.Equal(t, model.DefaultPhaseName, p.Name)
}

func TestRemovePhase(t *testing.T) {
	e := New(nil, sequentialIDs())
	e, a := e.AddPhase()
	e, b := e.AddPhase()
	e, c := e.AddPhase()

	e = e.RemovePhase(b)
	assert.Equal(t, []string{a, c}, phaseIDs(e))
}

func TestReorderPhases(t *testing.T) {
	e := New(nil, sequentialIDs())
	e, a := e.AddPhase()
	e, b := e.AddPhase()
	e, c := e.AddPhase()

	next, err := e.ReorderPhases(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{b, c, a}, phaseIDs(next))

	next, err = e.ReorderPhases(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{c, a, b}, phaseIDs(next))

	next, err = e.ReorderPhases(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, phaseIDs(next))
}

func TestReorderIsPermutation(t *testing.T) {
	e := New(nil, sequentialIDs())
	for range 5 {
		e, _ = e.AddPhase()
	}
	original := phaseIDs(e)

	for from := range 5 {
		for to := range 5 {
			next, err := e.ReorderPhases(from, to)
			require.NoError(t, err)

			got := phaseIDs(next)
			assert.ElementsMatch(t, original, got)
			assert.Equal(t, original[from], got[to])

			var restOrig, restGot []string
			for i, id := range original {
				if i != from {
					restOrig = append(restOrig, id)
				}
			}
			for i, id := range got {
				if i != to {
					restGot = append(restGot, id)
				}
			}
			assert.Equal(t, restOrig, restGot, "from=%d to=%d", from, to)
		}
	}
}

func TestReorderOutOfRange(t *testing.T) {
	e := New(nil, sequentialIDs())
	e, _ = e.AddPhase()
	e, _ = e.AddPhase()
	before := phaseIDs(e)

	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		next, err := e.ReorderPhases(idx[0], idx[1])
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, before, phaseIDs(next))
	}

	_, err := New(nil).ReorderPhases(0, 0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestReorderMilestones(t *testing.T) {
	e, pid := New(nil, sequentialIDs()).AddPhase()
	e, m1 := e.AddMilestone(pid)
	e, m2 := e.AddMilestone(pid)
	e, m3 := e.AddMilestone(pid)
	e = e.ToggleMilestone(pid, m1)

	next, err := e.ReorderMilestones(pid, 0, 2)
	require.NoError(t, err)

	p, _ := next.Phase(pid)
	var ids []string
	for _, m := range p.Milestones {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{m2, m3, m1}, ids)
	assert.Equal(t, 33, p.Progress)

	_, err = e.ReorderMilestones(pid, 0, 3)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMoveByID(t *testing.T) {
	e := New(nil, sequentialIDs())
	e, a := e.AddPhase()
	e, b := e.AddPhase()
	e, m1 := e.AddMilestone(a)
	e, m2 := e.AddMilestone(a)

	e, err := e.MovePhase(b, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, phaseIDs(e))

	e, err = e.MoveMilestone(a, m2, 0)
	require.NoError(t, err)
	p, _ := e.Phase(a)
	assert.Equal(t, m2, p.Milestones[0].ID)
	assert.Equal(t, m1, p.Milestones[1].ID)

	same, err := e.MovePhase("missing", 0)
	require.NoError(t, err)
	assert.Equal(t, phaseIDs(e), phaseIDs(same))
}

func TestRemovedMilestoneIDIsNotReused(t *testing.T) {
	e, pid := New(nil).AddPhase()
	e, m1 := e.AddMilestone(pid)
	e = e.RemoveMilestone(pid, m1)
	e, m2 := e.AddMilestone(pid)

	assert.NotEqual(t, m1, m2)
}

func TestRevisionsAreIsolated(t *testing.T) {
	e0, pid := New(nil).AddPhase()
	e1, mid := e0.AddMilestone(pid)
	e2 := e1.ToggleMilestone(pid, mid)
	e3, err := e2.UpdatePhase(pid, PhaseUpdate{}.SetName("Renamed"))
	require.NoError(t, err)

	p0, _ := e0.Phase(pid)
	p1, _ := e1.Phase(pid)
	p2, _ := e2.Phase(pid)
	p3, _ := e3.Phase(pid)

	assert.Empty(t, p0.Milestones)
	assert.False(t, p1.Milestones[0].Completed)
	assert.Equal(t, 0, p1.Progress)
	assert.True(t, p2.Milestones[0].Completed)
	assert.Equal(t, model.DefaultPhaseName, p2.Name)
	assert.Equal(t, "Renamed", p3.Name)

	phases := e3.Phases()
	phases[0].Name = "mutated"
	p3, _ = e3.Phase(pid)
	assert.Equal(t, "Renamed", p3.Name)
}

func TestNewNormalizesProgress(t *testing.T) {
	e := New([]model.Phase{{
		ID:         "p",
		Milestones: []model.Milestone{{ID: "a", Completed: true}, {ID: "b"}},
		Progress:   7,
	}})

	p, _ := e.Phase("p")
	assert.Equal(t, 50, p.Progress)
}

func TestToggleThenRemoveScenario(t *testing.T) {
	e := New([]model.Phase{{
		ID: "p",
		Milestones: []model.Milestone{
			{ID: "a"},
			{ID: "b"},
			{ID: "c", Completed: true},
		},
	}})

	p, _ := e.Phase("p")
	assert.Equal(t, 33, p.Progress)

	e = e.ToggleMilestone("p", "b")
	p, _ = e.Phase("p")
	assert.Equal(t, 67, p.Progress)

	e = e.RemoveMilestone("p", "a")
	p, _ = e.Phase("p")
	assert.Len(t, p.Milestones, 2)
	assert.Equal(t, 100, p.Progress)
}
