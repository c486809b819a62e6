// Package subscription decides which features a plan tier unlocks.
package subscription

import (
	"errors"
	"fmt"

	"github.com/nhle/roadmap-builder/internal/model"
)

// ErrUnknownPlan is returned when upgrading to a plan missing from the
// pricing catalog.
var ErrUnknownPlan = errors.New("unknown plan")

// Gate answers entitlement questions for one subscription. It is a value;
// mutators return an updated copy.
type Gate struct {
	plan  model.PlanType
	count int
}

// New returns a gate for plan with count roadmaps already held. An unknown
// plan is treated as free.
func New(plan model.PlanType, count int) Gate {
	if _, ok := model.LookupPlan(plan); !ok {
		plan = model.PlanFree
	}
	return Gate{plan: plan, count: max(count, 0)}
}

// FromSubscription builds a gate from stored subscription state. An
// unknown plan is treated as free.
func FromSubscription(s model.Subscription) Gate {
	return New(s.Plan, s.RoadmapsCount)
}

// Plan returns the current plan tier.
func (g Gate) Plan() model.PlanType { return g.plan }

// RoadmapsCount returns the number of roadmaps counted against the plan.
func (g Gate) RoadmapsCount() int { return g.count }

// Subscription returns the gate state as a model value.
func (g Gate) Subscription() model.Subscription {
	return model.Subscription{Plan: g.plan, RoadmapsCount: g.count}
}

func (g Gate) limits() model.PlanLimits {
	p, _ := model.LookupPlan(g.plan)
	return p.Limits
}

// CanCreateRoadmap reports whether one more roadmap fits the plan.
func (g Gate) CanCreateRoadmap() bool {
	limit := g.limits().MaxRoadmaps
	return limit < 0 || g.count < limit
}

// HasExport reports whether the plan includes document export.
func (g Gate) HasExport() bool {
	return g.limits().Export
}

// UpgradePlan switches to plan unconditionally. Any catalog plan can be
// reached from any other.
func (g Gate) UpgradePlan(plan model.PlanType) (Gate, error) {
	if _, ok := model.LookupPlan(plan); !ok {
		return g, fmt.Errorf("upgrading to %q: %w", plan, ErrUnknownPlan)
	}
	g.plan = plan
	return g, nil
}

// IncrementRoadmapCount records a created roadmap.
func (g Gate) IncrementRoadmapCount() Gate {
	g.count++
	return g
}

// DecrementRoadmapCount records a deleted roadmap. The count never drops
// below zero.
func (g Gate) DecrementRoadmapCount() Gate {
	if g.count > 0 {
		g.count--
	}
	return g
}
