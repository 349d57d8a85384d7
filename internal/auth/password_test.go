package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("demo123")
	require.NoError(t, err)
	require.NotEqual(t, "demo123", hash)

	require.True(t, ComparePassword(hash, "demo123"))
	require.False(t, ComparePassword(hash, "demo124"))
}
