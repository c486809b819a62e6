package model

import (
	"strings"
	"time"
)

// DefaultRoadmapName is used when a roadmap is created or renamed without a name.
const DefaultRoadmapName = "New Roadmap"

// Roadmap is a named collection of ordered phases.
type Roadmap struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Phases      []Phase   `json:"phases" yaml:"phases"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// RoadmapName normalizes a user-supplied name, falling back to the default.
func RoadmapName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultRoadmapName
	}
	return name
}

// Clone returns a deep copy of the roadmap.
func (r Roadmap) Clone() Roadmap {
	out := r
	out.Phases = ClonePhases(r.Phases)
	return out
}

// OverallProgress is the rounded mean of phase progress values.
func (r Roadmap) OverallProgress() int {
	n := len(r.Phases)
	if n == 0 {
		return 0
	}
	sum := 0
	for _, p := range r.Phases {
		sum += p.Progress
	}
	return (sum + n/2) / n
}

// CompletedMilestones counts completed milestones across all phases.
func (r Roadmap) CompletedMilestones() int {
	n := 0
	for _, p := range r.Phases {
		n += p.CompletedMilestones()
	}
	return n
}

// TotalMilestones counts milestones across all phases.
func (r Roadmap) TotalMilestones() int {
	n := 0
	for _, p := range r.Phases {
		n += len(p.Milestones)
	}
	return n
}
