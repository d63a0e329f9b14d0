package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m, err := NewManager("secret", time.Hour, "review-service")
	require.NoError(t, err)

	token, exp, err := m.GenerateAccessToken("u1", "u1@example.com", "Ada")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	a, _ := NewManager("secret-a", time.Hour, "x")
	b, _ := NewManager("secret-b", time.Hour, "x")

	token, _, err := a.GenerateAccessToken("u1", "", "")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	m, _ := NewManager("secret", time.Minute, "x")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.GenerateAccessToken("u1", "", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour, "x")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
