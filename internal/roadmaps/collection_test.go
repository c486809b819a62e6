package roadmaps

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/roadmap-builder/internal/model"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCollection(loaded []model.Roadmap) (Collection, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	n := 0
	c := NewCollection(loaded,
		WithClock(clock.Now),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("r%d", n)
		}),
	)
	return c, clock
}

func TestNewCollectionActivatesFirst(t *testing.T) {
	c, _ := newTestCollection([]model.Roadmap{{ID: "x"}, {ID: "y"}})
	assert.Equal(t, "x", c.ActiveID())

	empty, _ := newTestCollection(nil)
	_, ok := empty.Active()
	assert.False(t, ok)
	assert.Empty(t, empty.ActiveID())
}

func TestCreate(t *testing.T) {
	c, clock := newTestCollection(nil)

	c, id := c.Create("", "first")
	r, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, model.DefaultRoadmapName, r.Name)
	assert.Equal(t, "first", r.Description)
	assert.Empty(t, r.Phases)
	assert.Equal(t, clock.t, r.CreatedAt)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)

	c, id2 := c.Create("Launch", "")
	assert.NotEqual(t, id, id2)
	assert.Equal(t, id2, c.ActiveID())
	assert.Equal(t, 2, c.Len())
}

func TestCreatePutsNewestFirst(t *testing.T) {
	c, _ := newTestCollection([]model.Roadmap{{ID: "loaded"}})
	c, a := c.Create("A", "")
	c, b := c.Create("B", "")

	var ids []string
	for _, r := range c.Roadmaps() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{b, a, "loaded"}, ids)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	c := NewCollection(nil)
	seen := map[string]bool{}
	for range 20 {
		var id string
		c, id = c.Create("r", "")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestUpdate(t *testing.T) {
	c, clock := newTestCollection(nil)
	c, id := c.Create("Old", "desc")
	created, _ := c.Get(id)

	clock.Advance(time.Hour)
	c = c.Update(id, RoadmapUpdate{}.SetName("New"))

	r, _ := c.Get(id)
	assert.Equal(t, "New", r.Name)
	assert.Equal(t, "desc", r.Description)
	assert.Equal(t, created.CreatedAt, r.CreatedAt)
	assert.Equal(t, clock.t, r.UpdatedAt)

	c = c.Update(id, RoadmapUpdate{}.SetName("  ").SetDescription("other"))
	r, _ = c.Get(id)
	assert.Equal(t, model.DefaultRoadmapName, r.Name)
	assert.Equal(t, "other", r.Description)

	same := c.Update("missing", RoadmapUpdate{}.SetName("x"))
	assert.Equal(t, c.Roadmaps(), same.Roadmaps())
}

func TestUpdatePhases(t *testing.T) {
	c, clock := newTestCollection(nil)
	c, id := c.Create("R", "")

	clock.Advance(time.Minute)
	phases := []model.Phase{{
		ID:         "p",
		Milestones: []model.Milestone{{ID: "m", Completed: true}, {ID: "n"}},
	}}
	c = c.UpdatePhases(id, phases)

	r, _ := c.Get(id)
	require.Len(t, r.Phases, 1)
	assert.Equal(t, 50, r.Phases[0].Progress)
	assert.Equal(t, clock.t, r.UpdatedAt)

	phases[0].Name = "changed"
	r, _ = c.Get(id)
	assert.Empty(t, r.Phases[0].Name)
}

func TestDeleteActive(t *testing.T) {
	c, _ := newTestCollection(nil)
	c, a := c.Create("A", "")
	c, b := c.Create("B", "")
	c, cc := c.Create("C", "")

	c = c.Delete(cc)
	assert.Equal(t, b, c.ActiveID())
	_, ok := c.Active()
	assert.True(t, ok)

	c = c.Select(a).Delete(b)
	assert.Equal(t, a, c.ActiveID())

	c = c.Delete(a)
	assert.Empty(t, c.ActiveID())
	_, ok = c.Active()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	c, _ := newTestCollection(nil)
	c, id := c.Create("A", "")

	next := c.Delete("missing")
	assert.Equal(t, id, next.ActiveID())
	assert.Equal(t, 1, next.Len())
}

func TestSelect(t *testing.T) {
	c, _ := newTestCollection(nil)
	c, a := c.Create("A", "")
	c, _ = c.Create("B", "")

	c = c.Select(a)
	r, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "A", r.Name)

	c = c.Select("missing")
	assert.Empty(t, c.ActiveID())
	_, ok = c.Active()
	assert.False(t, ok)
}

func TestRevisionsAreIsolated(t *testing.T) {
	c0, _ := newTestCollection(nil)
	c1, id := c0.Create("A", "")
	c2 := c1.Update(id, RoadmapUpdate{}.SetName("B"))
	c3 := c2.Delete(id)

	assert.Equal(t, 0, c0.Len())
	r1, _ := c1.Get(id)
	r2, _ := c2.Get(id)
	assert.Equal(t, "A", r1.Name)
	assert.Equal(t, "B", r2.Name)
	assert.Equal(t, 0, c3.Len())
	assert.Equal(t, id, c2.ActiveID())
}
