package shared_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "asha@example.com", false, "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestAdminTokenCarriesAdminID(t *testing.T) {
	token, err := GenerateToken(1, "admin@example.com", true, "ADM-7")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "ADM-7", claims.AdminID)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(42, "asha@example.com", false, "")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}
