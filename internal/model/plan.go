package model

import "fmt"

// PlanType identifies a subscription tier.
type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanMonthly PlanType = "monthly"
	PlanYearly  PlanType = "yearly"
)

// Unlimited marks a limit without an upper bound.
const Unlimited = -1

// PlanLimits are the entitlements attached to a plan.
type PlanLimits struct {
	MaxRoadmaps int  `json:"max_roadmaps" yaml:"max_roadmaps"`
	Export      bool `json:"export" yaml:"export"`
}

// Plan is an entry of the pricing catalog.
type Plan struct {
	ID       PlanType   `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Price    int        `json:"price" yaml:"price"`
	Interval string     `json:"interval" yaml:"interval"`
	Features []string   `json:"features" yaml:"features"`
	Limits   PlanLimits `json:"limits" yaml:"limits"`
}

// PricingPlans is the static pricing catalog.
var PricingPlans = []Plan{
	{
		ID:       PlanFree,
		Name:     "Free",
		Price:    0,
		Interval: "forever",
		Features: []string{
			"1 roadmap",
			"Basic templates",
			"Keyboard editor",
			"Progress tracking",
		},
		Limits: PlanLimits{MaxRoadmaps: 1, Export: false},
	},
	{
		ID:       PlanMonthly,
		Name:     "Pro Monthly",
		Price:    10,
		Interval: "month",
		Features: []string{
			"Unlimited roadmaps",
			"Document export",
			"Custom themes",
			"Priority support",
		},
		Limits: PlanLimits{MaxRoadmaps: Unlimited, Export: true},
	},
	{
		ID:       PlanYearly,
		Name:     "Pro Yearly",
		Price:    100,
		Interval: "year",
		Features: []string{
			"Unlimited roadmaps",
			"Document export",
			"Custom themes",
			"Priority support",
			"Save $20/year",
		},
		Limits: PlanLimits{MaxRoadmaps: Unlimited, Export: true},
	},
}

// LookupPlan returns the catalog entry for id.
func LookupPlan(id PlanType) (Plan, bool) {
	for _, p := range PricingPlans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// PaidPlans returns the catalog entries that cost money.
func PaidPlans() []Plan {
	var out []Plan
	for _, p := range PricingPlans {
		if p.Price > 0 {
			out = append(out, p)
		}
	}
	return out
}

// ParsePlan converts a string into a known PlanType.
func ParsePlan(s string) (PlanType, error) {
	if _, ok := LookupPlan(PlanType(s)); !ok {
		return "", fmt.Errorf("unknown plan %q", s)
	}
	return PlanType(s), nil
}

// Subscription is a user's plan and the number of roadmaps they hold.
type Subscription struct {
	Plan          PlanType `json:"plan"`
	RoadmapsCount int      `json:"roadmaps_count"`
}
