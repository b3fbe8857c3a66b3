package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	signed, err := GenerateAdminToken("secret", "admin@stacklist.dev")
	require.NoError(t, err)

	claims, err := ValidateAdminToken("secret", signed)
	require.NoError(t, err)
	assert.Equal(t, "admin@stacklist.dev", claims.Email)
}

func TestAdminTokenWrongSecretRejected(t *testing.T) {
	signed, err := GenerateAdminToken("secret", "admin@stacklist.dev")
	require.NoError(t, err)

	_, err = ValidateAdminToken("other-secret", signed)
	assert.Error(t, err)
}

func TestAdminTokenGarbageRejected(t *testing.T) {
	_, err := ValidateAdminToken("secret", "not-a-jwt")
	assert.Error(t, err)
}
