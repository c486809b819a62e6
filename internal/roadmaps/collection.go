// Package roadmaps tracks the set of roadmaps held by one session and which
// of them is active.
package roadmaps

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhle/roadmap-builder/internal/model"
)

// Option configures a Collection.
type Option func(*Collection)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) {
		c.now = now
	}
}

// WithIDFunc overrides roadmap id generation.
func WithIDFunc(fn func() string) Option {
	return func(c *Collection) {
		c.newID = fn
	}
}

// Collection is one revision of the roadmap set. Operations return a new
// revision; the receiver is never modified.
type Collection struct {
	items    []model.Roadmap
	activeID string

	now   func() time.Time
	newID func() string
}

// NewCollection builds a collection from previously loaded roadmaps. The
// first roadmap becomes active.
func NewCollection(loaded []model.Roadmap, opts ...Option) Collection {
	c := Collection{
		items: cloneAll(loaded),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(&c)
	}
	for i := range c.items {
		for j := range c.items[i].Phases {
			c.items[i].Phases[j].RecomputeProgress()
		}
	}
	if len(c.items) > 0 {
		c.activeID = c.items[0].ID
	}
	return c
}

// Len returns the number of roadmaps.
func (c Collection) Len() int { return len(c.items) }

// Roadmaps returns a copy of every roadmap in collection order.
func (c Collection) Roadmaps() []model.Roadmap {
	return cloneAll(c.items)
}

// Get returns a copy of the roadmap with the given id.
func (c Collection) Get(id string) (model.Roadmap, bool) {
	i := c.index(id)
	if i < 0 {
		return model.Roadmap{}, false
	}
	return c.items[i].Clone(), true
}

// ActiveID returns the selected id, which may name no roadmap at all.
func (c Collection) ActiveID() string { return c.activeID }

// Active resolves the selected roadmap. ok is false in the empty state.
func (c Collection) Active() (model.Roadmap, bool) {
	return c.Get(c.activeID)
}

// Create puts a new empty roadmap first, makes it active and returns its id.
// Newest first matches the order roadmaps are loaded in. Blank names fall
// back to the default roadmap name.
func (c Collection) Create(name, description string) (Collection, string) {
	now := c.now()
	r := model.Roadmap{
		ID:          c.newID(),
		Name:        model.RoadmapName(name),
		Description: description,
		Phases:      []model.Phase{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	next := c.with(append([]model.Roadmap{r}, cloneAll(c.items)...))
	next.activeID = r.ID
	return next, r.ID
}

// Update merges u into the roadmap with the given id and stamps UpdatedAt.
// Unknown ids leave the collection unchanged.
func (c Collection) Update(id string, u RoadmapUpdate) Collection {
	i := c.index(id)
	if i < 0 {
		return c
	}
	items := cloneAll(c.items)
	u.apply(&items[i])
	items[i].UpdatedAt = c.now()
	return c.with(items)
}

// UpdatePhases replaces the phase list of a roadmap. Progress is recomputed
// for every phase in the replacement.
func (c Collection) UpdatePhases(id string, phases []model.Phase) Collection {
	i := c.index(id)
	if i < 0 {
		return c
	}
	items := cloneAll(c.items)
	items[i].Phases = model.ClonePhases(phases)
	for j := range items[i].Phases {
		items[i].Phases[j].RecomputeProgress()
	}
	items[i].UpdatedAt = c.now()
	return c.with(items)
}

// Delete removes a roadmap. When the active roadmap is removed the first
// remaining one becomes active, or none when the collection is empty.
func (c Collection) Delete(id string) Collection {
	i := c.index(id)
	if i < 0 {
		return c
	}
	items := make([]model.Roadmap, 0, len(c.items)-1)
	for j, r := range c.items {
		if j != i {
			items = append(items, r.Clone())
		}
	}
	next := c.with(items)
	if c.activeID == id {
		next.activeID = ""
		if len(items) > 0 {
			next.activeID = items[0].ID
		}
	}
	return next
}

// Select makes id active. An id that names no roadmap clears the selection.
func (c Collection) Select(id string) Collection {
	next := c.with(c.items)
	next.activeID = ""
	if c.index(id) >= 0 {
		next.activeID = id
	}
	return next
}

func (c Collection) with(items []model.Roadmap) Collection {
	return Collection{
		items:    items,
		activeID: c.activeID,
		now:      c.now,
		newID:    c.newID,
	}
}

func (c Collection) index(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range c.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []model.Roadmap) []model.Roadmap {
	out := make([]model.Roadmap, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
