package roadmaps

import "github.com/nhle/roadmap-builder/internal/model"

// RoadmapUpdate is a partial update to a roadmap's name and description.
// The id and creation time cannot be expressed.
type RoadmapUpdate struct {
	name        *string
	description *string
}

// SetName returns a copy of u that renames the roadmap.
func (u RoadmapUpdate) SetName(name string) RoadmapUpdate {
	u.name = &name
	return u
}

// SetDescription returns a copy of u that replaces the description.
func (u RoadmapUpdate) SetDescription(description string) RoadmapUpdate {
	u.description = &description
	return u
}

func (u RoadmapUpdate) apply(r *model.Roadmap) {
	if u.name != nil {
		r.Name = model.RoadmapName(*u.name)
	}
	if u.description != nil {
		r.Description = *u.description
	}
}
