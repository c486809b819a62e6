package app

import "github.com/nhle/roadmap-builder/internal/model"

// planLabel returns the display name of plan for the header.
func planLabel(plan model.PlanType) string {
	if p, ok := model.LookupPlan(plan); ok {
		return p.Name
	}
	return string(plan)
}
