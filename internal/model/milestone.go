package model

// DefaultMilestoneTitle is the title given to a freshly added milestone.
const DefaultMilestoneTitle = "New task"

// Milestone is a single completable task within a phase.
type Milestone struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// ComputeProgress returns the completion percentage of milestones, rounded
// half-up. An empty list has zero progress.
func ComputeProgress(milestones []Milestone) int {
	total := len(milestones)
	if total == 0 {
		return 0
	}
	done := 0
	for _, m := range milestones {
		if m.Completed {
			done++
		}
	}
	return (100*done + total/2) / total
}
