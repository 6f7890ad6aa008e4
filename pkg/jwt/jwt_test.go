package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, err := m.GenerateAccessToken(1, "admin", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenRejectedWithOtherSecret(t *testing.T) {
	token, err := NewManager("secret", time.Hour).GenerateAccessToken(1, "admin", "admin")
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("secret", time.Hour)
	m.expiry = -time.Minute
	token, err := m.GenerateAccessToken(1, "admin", "admin")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
