package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/jbudget-be/internal/models"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "jbudget-test", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndParse(t *testing.T) {
	tm := newTestManager()
	pair, err := tm.Generate(models.User{ID: "user-1"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	id, err := tm.Parse(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	id, err = tm.Parse(pair.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestParseRejectsWrongKind(t *testing.T) {
	tm := newTestManager()
	pair, err := tm.Generate(models.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = tm.Parse(pair.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.Parse(pair.AccessToken, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	tm := newTestManager()
	issued := time.Now().Add(-time.Hour)
	tm.now = func() time.Time { return issued }
	pair, err := tm.Generate(models.User{ID: "user-1"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// the refresh token is still inside its lifetime
	_, err = tm.Parse(pair.RefreshToken, RefreshToken)
	assert.NoError(t, err)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	other := NewTokenManager("someone-else", "refresh-secret", "jbudget-test", time.Minute, time.Hour)
	pair, err := other.Generate(models.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = newTestManager().Parse(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestManager().Parse("not-a-jwt", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
