package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/roadmap-builder/internal/model"
)

// UpsertUser inserts a user or refreshes the name and avatar of an
// existing one. The creation time of an existing user is kept.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user model.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id must not be empty")
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = model.DefaultUserName
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, avatar, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			avatar = excluded.avatar`,
		user.ID, user.Name, user.Avatar, user.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting user %s: %w", user.ID, err)
	}
	return nil
}

// GetUserByID retrieves a single user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, name, avatar, created_at FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting user %s: %w", id, model.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &user, nil
}
