// Package auth tracks the signed-in user of a local session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/nhle/roadmap-builder/internal/credential"
	"github.com/nhle/roadmap-builder/internal/model"
)

// sessionKey is the keyring entry holding the signed-in user id.
const sessionKey = "session-user-id"

// userNamespace scopes name-derived user ids.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("roadmap-builder.local"))

// SecretStore persists the session between runs.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Users is the part of the store a session needs.
type Users interface {
	UpsertUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Session holds the current user, if any. A nil user means signed out;
// the builder stays locked until someone signs in.
type Session struct {
	secrets SecretStore
	users   Users
	now     func() time.Time

	user *model.User
}

// NewSession returns a signed-out session.
func NewSession(secrets SecretStore, users Users) *Session {
	return &Session{
		secrets: secrets,
		users:   users,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// UserID derives the stable user id for a display name.
func UserID(name string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(normalizeName(name)))).String()
}

// Restore signs in the user remembered from a previous run. It returns
// nil without error when nobody was signed in or the user is gone.
func (s *Session) Restore(ctx context.Context) (*model.User, error) {
	id, err := s.secrets.Get(sessionKey)
	if errors.Is(err, credential.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	u, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		if err := s.secrets.Delete(sessionKey); err != nil && !errors.Is(err, credential.ErrNotFound) {
			return nil, fmt.Errorf("restoring session: forgetting user %s: %w", id, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	s.user = u
	return u, nil
}

// SignIn signs in as name, creating the user on first use.
func (s *Session) SignIn(ctx context.Context, name string) (model.User, error) {
	name = normalizeName(name)
	u := model.User{
		ID:        UserID(name),
		Name:      name,
		Avatar:    initials(name),
		CreatedAt: s.now(),
	}

	if err := s.users.UpsertUser(ctx, u); err != nil {
		return model.User{}, fmt.Errorf("signing in %q: %w", name, err)
	}
	stored, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("signing in %q: %w", name, err)
	}
	if err := s.secrets.Set(sessionKey, u.ID); err != nil {
		return model.User{}, fmt.Errorf("signing in %q: %w", name, err)
	}

	s.user = stored
	return *stored, nil
}

// SignOut forgets the current user.
func (s *Session) SignOut() error {
	s.user = nil
	if err := s.secrets.Delete(sessionKey); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// SignedIn reports whether a user is signed in.
func (s *Session) SignedIn() bool {
	return s.user != nil
}

func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return model.DefaultUserName
	}
	return name
}

// initials returns up to two upper-cased leading letters of name.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
