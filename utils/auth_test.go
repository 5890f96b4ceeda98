package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := GenerateJWT("jane@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseJWTRejectsTamperedToken(t *testing.T) {
	JwtKey = []byte("test-secret")
	token, err := GenerateJWT("jane@example.com", "user")
	require.NoError(t, err)

	_, err = ParseJWT(token + "x")
	assert.Error(t, err)
}

func TestParseJWTRejectsWrongKey(t *testing.T) {
	JwtKey = []byte("test-secret")
	token, err := GenerateJWT("jane@example.com", "user")
	require.NoError(t, err)

	JwtKey = []byte("other-secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
