package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	access, _, err := svc.GenerateAccessToken("user-1", nil, "manager")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)
}

func TestSSEToken_RejectsForeignSignature(t *testing.T) {
	other := NewJWTService("other-secret", "15m")
	token, _, err := other.GenerateSSEToken("user-1")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "15m").ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestGenerateAccessToken_InvalidDuration(t *testing.T) {
	_, _, err := NewJWTService("test-secret", "soon").GenerateAccessToken("user-1", nil, "employee")
	assert.Error(t, err)
}
