package security

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeys_Deterministic(t *testing.T) {
	a, err := DeriveKeys("correct horse battery staple")
	require.NoError(t, err)
	b, err := DeriveKeys("correct horse battery staple")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a.TokenSigning, 32)
	assert.Len(t, a.Cookie, 32)
	assert.NotEqual(t, a.TokenSigning, a.Cookie)
}

func TestDeriveKeys_DifferentSecrets(t *testing.T) {
	a, err := DeriveKeys("one")
	require.NoError(t, err)
	b, err := DeriveKeys("two")
	require.NoError(t, err)
	assert.NotEqual(t, a.TokenSigning, b.TokenSigning)
}

func TestDeriveKeys_EmptySecretIsRandom(t *testing.T) {
	a, err := DeriveKeys("")
	require.NoError(t, err)
	b, err := DeriveKeys("")
	require.NoError(t, err)
	assert.NotEqual(t, a.TokenSigning, b.TokenSigning)
}

func TestCookieKey_Base64(t *testing.T) {
	k, err := DeriveKeys("secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(k.CookieKey())
	require.NoError(t, err)
	assert.Equal(t, k.Cookie, raw)
}
