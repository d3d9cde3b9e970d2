package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash verifies against original password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := HashPassword("same-password")
		require.NoError(t, err)
		second, err := HashPassword("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("rejects password over bcrypt limit", func(t *testing.T) {
		_, err := HashPassword(strings.Repeat("a", 73))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("supply-chain-2024")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "supply-chain-2024"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "supply-chain-2024"))
}
