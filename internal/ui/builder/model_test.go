package builder

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/roadmap-builder/internal/editor"
	"github.com/nhle/roadmap-builder/internal/keys"
	"github.com/nhle/roadmap-builder/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sequentialIDs() editor.Option {
	n := 0
	return editor.WithIDFunc(func() string {
		n++
		return string(rune('a' + n - 1))
	})
}

func sampleRoadmap() model.Roadmap {
	return model.Roadmap{
		ID:   "r1",
		Name: "Launch",
		Phases: []model.Phase{
			{ID: "p1", Name: "Build", Theme: model.ThemeBlue, Milestones: []model.Milestone{
				{ID: "m1", Title: "API"},
				{ID: "m2", Title: "UI"},
			}},
			{ID: "p2", Name: "Ship", Theme: model.ThemeGreen, Milestones: []model.Milestone{}},
		},
	}
}

func newBuilder(r model.Roadmap) Model {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetRoadmap(r, true)
	return m
}

// applyCmd runs cmd, expects an EditMsg and applies it to r's phases.
func applyCmd(t *testing.T, cmd tea.Cmd, r model.Roadmap) (EditMsg, editor.Editor) {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(EditMsg)
	require.True(t, ok)

	next, err := msg.Apply(editor.New(r.Phases, sequentialIDs()))
	require.NoError(t, err)
	return msg, next
}

func TestAddPhaseFocusesNewPhase(t *testing.T) {
	m := newBuilder(model.Roadmap{ID: "r1"})

	_, cmd := m.Update(runes("p"))
	msg, next := applyCmd(t, cmd, model.Roadmap{})

	require.Equal(t, 1, next.Len())
	require.NotNil(t, msg.Focus)
	assert.Equal(t, next.Phases()[0].ID, *msg.Focus)

	m.SetRoadmap(model.Roadmap{ID: "r1", Phases: next.Phases()}, true)
	m.FocusID(*msg.Focus)
	pid, mid := m.Cursor()
	assert.Equal(t, next.Phases()[0].ID, pid)
	assert.Empty(t, mid)
}

func TestNavigateAndToggle(t *testing.T) {
	r := sampleRoadmap()
	m := newBuilder(r)

	m, _ = m.Update(runes("j"))
	m, _ = m.Update(runes("j"))
	pid, mid := m.Cursor()
	assert.Equal(t, "p1", pid)
	assert.Equal(t, "m2", mid)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, next := applyCmd(t, cmd, r)
	p, _ := next.Phase("p1")
	assert.True(t, p.Milestones[1].Completed)
	assert.Equal(t, 50, p.Progress)
}

func TestToggleOnPhaseRowDoesNothing(t *testing.T) {
	m := newBuilder(sampleRoadmap())

	_, cmd := m.Update(runes("x"))
	assert.Nil(t, cmd)
}

func TestMovePastEdgeIsIgnored(t *testing.T) {
	r := sampleRoadmap()
	m := newBuilder(r)

	_, cmd := m.Update(runes("K"))
	assert.Nil(t, cmd)

	_, cmd = m.Update(runes("J"))
	_, next := applyCmd(t, cmd, r)
	assert.Equal(t, "p2", next.Phases()[0].ID)
	assert.Equal(t, "p1", next.Phases()[1].ID)
}

func TestMoveMilestone(t *testing.T) {
	r := sampleRoadmap()
	m := newBuilder(r)
	m.FocusID("m1")

	_, cmd := m.Update(runes("J"))
	_, next := applyCmd(t, cmd, r)
	p, _ := next.Phase("p1")
	assert.Equal(t, "m2", p.Milestones[0].ID)
	assert.Equal(t, "m1", p.Milestones[1].ID)

	m.FocusID("m2")
	_, cmd = m.Update(runes("J"))
	assert.Nil(t, cmd)
}

func TestRemoveMilestoneAndKeepCursor(t *testing.T) {
	r := sampleRoadmap()
	m := newBuilder(r)
	m.FocusID("m2")

	_, cmd := m.Update(runes("d"))
	_, next := applyCmd(t, cmd, r)

	r.Phases = next.Phases()
	m.SetRoadmap(r, true)
	pid, mid := m.Cursor()
	assert.Equal(t, "p1", pid)
	assert.Equal(t, "m1", mid, "cursor clamps to a remaining row")
}

func TestRemovePhaseAsksFirst(t *testing.T) {
	m := newBuilder(sampleRoadmap())

	m, _ = m.Update(runes("d"))
	assert.True(t, m.InForm())
}

func TestAddMilestoneToCursorPhase(t *testing.T) {
	r := sampleRoadmap()
	m := newBuilder(r)
	m.FocusID("p2")

	_, cmd := m.Update(runes("m"))
	msg, next := applyCmd(t, cmd, r)
	p, _ := next.Phase("p2")
	require.Len(t, p.Milestones, 1)
	assert.Equal(t, p.Milestones[0].ID, *msg.Focus)
	assert.Equal(t, model.DefaultMilestoneTitle, p.Milestones[0].Title)
}

func TestKeysIgnoredWithoutRoadmap(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	_, cmd := m.Update(runes("p"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No roadmap selected")
}

func TestViewShowsPhasesAndProgress(t *testing.T) {
	r := sampleRoadmap()
	r.Phases[0].Milestones[0].Completed = true
	r.Phases[0].RecomputeProgress()

	out := newBuilder(r).View()
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "[x] API")
	assert.Contains(t, out, "1/2 milestones")
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, height int
		start, end        int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := window(tt.n, tt.cursor, tt.height)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
