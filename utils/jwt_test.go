package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestUserTokenRoundTrip(t *testing.T) {
	token, err := SignUserToken(testSecret, "64f000000000000000000001", "investor")
	require.NoError(t, err)

	claims, err := ParseUserToken(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, "64f000000000000000000001", claims.UserID)
	require.Equal(t, "investor", claims.Role)
}

func TestUserTokenWrongSecret(t *testing.T) {
	token, err := SignUserToken(testSecret, "64f000000000000000000001", "creator")
	require.NoError(t, err)

	_, err = ParseUserToken("other-secret", token)
	require.Error(t, err)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := SignAdminToken(testSecret)
	require.NoError(t, err)

	claims, err := ParseAdminToken(testSecret, token)
	require.NoError(t, err)
	require.True(t, claims.IsAdmin)
}

func TestUserTokenCarriesNoAdminClaim(t *testing.T) {
	token, err := SignUserToken(testSecret, "64f000000000000000000001", "creator")
	require.NoError(t, err)

	// A user token parses structurally but must not grant the capability.
	claims, err := ParseAdminToken(testSecret, token)
	require.NoError(t, err)
	require.False(t, claims.IsAdmin)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := ParseUserToken(testSecret, "not.a.token")
	require.Error(t, err)
	_, err = ParseAdminToken(testSecret, "not.a.token")
	require.Error(t, err)
}
