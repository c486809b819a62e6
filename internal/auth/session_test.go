package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/roadmap-builder/internal/auth"
	"github.com/nhle/roadmap-builder/internal/credential"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/tests/testutil"
)

func newSession(t *testing.T) (*auth.Session, *credential.Keyring) {
	t.Helper()
	secrets := credential.New(keyring.NewArrayKeyring(nil))
	return auth.NewSession(secrets, testutil.NewTestStore(t)), secrets
}

func TestSignInAndRestore(t *testing.T) {
	ctx := context.Background()
	secrets := credential.New(keyring.NewArrayKeyring(nil))
	st := testutil.NewTestStore(t)

	s := auth.NewSession(secrets, st)
	assert.False(t, s.SignedIn())

	u, err := s.SignIn(ctx, "  Ada   Lovelace ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "AL", u.Avatar)
	assert.Equal(t, auth.UserID("ada lovelace"), u.ID)
	assert.True(t, s.SignedIn())

	restored := auth.NewSession(secrets, st)
	got, err := restored.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.True(t, restored.SignedIn())
}

func TestSignInBlankName(t *testing.T) {
	s, _ := newSession(t)

	u, err := s.SignIn(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserName, u.Name)
}

func TestSignInIsStable(t *testing.T) {
	s, _ := newSession(t)

	a, err := s.SignIn(context.Background(), "grace")
	require.NoError(t, err)
	b, err := s.SignIn(context.Background(), "Grace")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Grace", b.Name)
	assert.True(t, a.CreatedAt.Equal(b.CreatedAt))
}

func TestRestoreWithoutSession(t *testing.T) {
	s, _ := newSession(t)

	u, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, s.SignedIn())
}

func TestRestoreForgetsMissingUser(t *testing.T) {
	s, secrets := newSession(t)
	require.NoError(t, secrets.Set("session-user-id", "ghost"))

	u, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = secrets.Get("session-user-id")
	assert.True(t, errors.Is(err, credential.ErrNotFound))
}

// stuckSecrets holds a session entry it cannot delete.
type stuckSecrets struct {
	*credential.Keyring
}

func (stuckSecrets) Delete(string) error { return errors.New("keyring locked") }

func TestRestoreReportsStaleSessionCleanupFailure(t *testing.T) {
	secrets := stuckSecrets{credential.New(keyring.NewArrayKeyring(nil))}
	require.NoError(t, secrets.Set("session-user-id", "ghost"))
	s := auth.NewSession(secrets, testutil.NewTestStore(t))

	u, err := s.Restore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyring locked")
	assert.Nil(t, u)
	assert.False(t, s.SignedIn())
}

func TestSignOut(t *testing.T) {
	s, secrets := newSession(t)
	_, err := s.SignIn(context.Background(), "Linus")
	require.NoError(t, err)

	require.NoError(t, s.SignOut())
	assert.False(t, s.SignedIn())

	_, err = secrets.Get("session-user-id")
	require.ErrorIs(t, err, credential.ErrNotFound)
}
