package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringRoundTrip(t *testing.T) {
	k := New(keyring.NewArrayKeyring(nil))

	_, err := k.Get("session")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, k.Set("session", "user-1"))
	v, err := k.Get("session")
	require.NoError(t, err)
	assert.Equal(t, "user-1", v)

	require.NoError(t, k.Delete("session"))
	_, err = k.Get("session")
	require.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, k.Delete("session"))
}
