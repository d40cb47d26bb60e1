package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIKeyAuth(t *testing.T) {
	a, err := NewAPIKeyAuth([]string{"k1:alice", " k2 : bob "})
	require.NoError(t, err)
	assert.True(t, a.Enabled())

	name, ok := a.PlayerFor("k1")
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	name, ok = a.PlayerFor("k2")
	assert.True(t, ok)
	assert.Equal(t, "bob", name)

	assert.False(t, a.IsValidKey("k3"))
}

func TestNewAPIKeyAuth_Malformed(t *testing.T) {
	for _, pair := range []string{"novalue", ":alice", "k1:", "  :  "} {
		_, err := NewAPIKeyAuth([]string{pair})
		assert.ErrorIs(t, err, ErrMalformedKey, pair)
	}
}

func TestAPIKeyAuth_AddRemove(t *testing.T) {
	a, err := NewAPIKeyAuth(nil)
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	a.AddKey("secret", "carol")
	assert.True(t, a.IsValidKey("secret"))

	a.RemoveKey("secret")
	assert.False(t, a.IsValidKey("secret"))
	assert.False(t, a.Enabled())
}
