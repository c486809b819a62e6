package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nhle/roadmap-builder/internal/model"
)

// InsertRoadmap stores a new roadmap owned by userID. The roadmap is kept
// as an opaque JSON payload; only the id, owner and timestamps are columns.
func (s *SQLiteStore) InsertRoadmap(ctx context.Context, userID string, roadmap model.Roadmap) error {
	payload, err := json.Marshal(roadmap)
	if err != nil {
		return fmt.Errorf("marshaling roadmap %s: %w", roadmap.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO roadmaps (id, user_id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		roadmap.ID, userID, string(payload),
		roadmap.CreatedAt.UTC(), roadmap.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting roadmap %s: %w", roadmap.ID, err)
	}
	return nil
}

// UpdateRoadmap replaces the payload of a roadmap owned by userID.
func (s *SQLiteStore) UpdateRoadmap(ctx context.Context, userID string, roadmap model.Roadmap) error {
	payload, err := json.Marshal(roadmap)
	if err != nil {
		return fmt.Errorf("marshaling roadmap %s: %w", roadmap.ID, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE roadmaps SET payload = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		string(payload), roadmap.UpdatedAt.UTC(),
		roadmap.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("updating roadmap %s: %w", roadmap.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("updating roadmap %s: %w", roadmap.ID, model.ErrRoadmapNotFound)
	}
	return nil
}

// DeleteRoadmap removes a roadmap owned by userID.
func (s *SQLiteStore) DeleteRoadmap(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM roadmaps WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting roadmap %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting roadmap %s: %w", id, model.ErrRoadmapNotFound)
	}
	return nil
}

// GetRoadmap retrieves a single roadmap owned by userID.
func (s *SQLiteStore) GetRoadmap(ctx context.Context, userID, id string) (*model.Roadmap, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM roadmaps WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting roadmap %s: %w", id, model.ErrRoadmapNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting roadmap %s: %w", id, err)
	}

	r, err := decodeRoadmap(payload)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoadmapsForUser returns every roadmap owned by userID, newest first.
func (s *SQLiteStore) ListRoadmapsForUser(ctx context.Context, userID string) ([]model.Roadmap, error) {
	var payloads []string
	err := s.db.SelectContext(ctx, &payloads, `
		SELECT payload FROM roadmaps
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying roadmaps for user %s: %w", userID, err)
	}

	roadmaps := make([]model.Roadmap, 0, len(payloads))
	for _, p := range payloads {
		r, err := decodeRoadmap(p)
		if err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, r)
	}
	return roadmaps, nil
}

// decodeRoadmap parses a stored payload and refreshes derived progress.
func decodeRoadmap(payload string) (model.Roadmap, error) {
	var r model.Roadmap
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return model.Roadmap{}, fmt.Errorf("unmarshaling roadmap payload: %w", err)
	}
	if r.Phases == nil {
		r.Phases = []model.Phase{}
	}
	for i := range r.Phases {
		if r.Phases[i].Milestones == nil {
			r.Phases[i].Milestones = []model.Milestone{}
		}
		r.Phases[i].RecomputeProgress()
	}
	return r, nil
}
