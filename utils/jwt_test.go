package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("user-123", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsCreator)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken("user-123", false)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := VerifyToken("khong-phai-jwt")
	assert.Error(t, err)
}
