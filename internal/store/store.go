package store

import (
	"context"

	"github.com/nhle/roadmap-builder/internal/model"
)

// Store defines the persistence interface for users, their roadmaps and
// their subscription plan.
//
// Roadmaps are keyed by owner: every roadmap call carries the owning user
// id, and updates or deletes that match no roadmap of that owner report
// model.ErrRoadmapNotFound.
type Store interface {
	// === Users ===

	UpsertUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// === Roadmaps ===

	InsertRoadmap(ctx context.Context, userID string, roadmap model.Roadmap) error
	UpdateRoadmap(ctx context.Context, userID string, roadmap model.Roadmap) error
	DeleteRoadmap(ctx context.Context, userID, id string) error
	GetRoadmap(ctx context.Context, userID, id string) (*model.Roadmap, error)
	ListRoadmapsForUser(ctx context.Context, userID string) ([]model.Roadmap, error)

	// === Subscriptions ===

	GetSubscription(ctx context.Context, userID string) (model.Subscription, error)
	SaveSubscription(ctx context.Context, userID string, plan model.PlanType) error
}
