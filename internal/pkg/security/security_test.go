package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Setup("unit-test-secret", 1, "toasoan-test")

	token, err := GenerateToken(42, "editor")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "editor", claims.Role)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL(time.Now()).Seconds(), 5)

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(token, "."+sig))
}

func TestValidateToken_Tampered(t *testing.T) {
	Setup("unit-test-secret", 1, "toasoan-test")
	token, err := GenerateToken(1, "admin")
	require.NoError(t, err)

	Setup("another-secret", 1, "toasoan-test")
	_, err = ValidateToken(token)
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractSignature_Malformed(t *testing.T) {
	_, err := ExtractSignature("a.b")
	assert.Error(t, err)
	_, err = ExtractSignature("a.b.")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("MatKhau@123")
	require.NoError(t, err)

	assert.NoError(t, CheckPasswordHash("MatKhau@123", hash))
	assert.ErrorIs(t, CheckPasswordHash("sai", hash), ErrInvalidCredentials)

	_, err = HashPassword("")
	assert.Error(t, err)
}
