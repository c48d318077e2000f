package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyHS256(t *testing.T) {
	v := NewVerifier("test-secret", nil)

	t.Run("Valid token", func(t *testing.T) {
		token := signHS256(t, "test-secret", jwt.MapClaims{
			"sub":   "user-1",
			"email": "student@college.edu",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		id, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", id.Subject)
		assert.Equal(t, "student@college.edu", id.Email)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token := signHS256(t, "other", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
		_, err := v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token := signHS256(t, "test-secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Minute).Unix()})
		_, err := v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("Missing subject", func(t *testing.T) {
		token := signHS256(t, "test-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		_, err := v.Verify(token)
		assert.Error(t, err)
	})
}

func TestVerifyWithoutSecret(t *testing.T) {
	token := signHS256(t, "anything", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()})
	_, err := NewVerifier("", nil).Verify(token)
	assert.Error(t, err)
}
