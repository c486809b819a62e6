package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/roadmap-builder/internal/model"
)

// GetSubscription returns the user's plan and the number of roadmaps they
// own. Users without a stored plan are on the free plan.
func (s *SQLiteStore) GetSubscription(ctx context.Context, userID string) (model.Subscription, error) {
	sub := model.Subscription{Plan: model.PlanFree}

	var plan string
	err := s.db.GetContext(ctx, &plan,
		"SELECT plan FROM subscriptions WHERE user_id = ?", userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return model.Subscription{}, fmt.Errorf("getting subscription for %s: %w", userID, err)
	default:
		sub.Plan = model.PlanType(plan)
	}

	err = s.db.GetContext(ctx, &sub.RoadmapsCount,
		"SELECT COUNT(*) FROM roadmaps WHERE user_id = ?", userID)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("counting roadmaps for %s: %w", userID, err)
	}

	return sub, nil
}

// SaveSubscription records the user's plan.
func (s *SQLiteStore) SaveSubscription(ctx context.Context, userID string, plan model.PlanType) error {
	if _, ok := model.LookupPlan(plan); !ok {
		return fmt.Errorf("saving subscription for %s: unknown plan %q", userID, plan)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, plan, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			plan = excluded.plan,
			updated_at = excluded.updated_at`,
		userID, string(plan), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving subscription for %s: %w", userID, err)
	}
	return nil
}
