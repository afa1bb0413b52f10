package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/auth"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)
	assert.True(t, auth.CheckPasswordHash("hunter2hunter2", hash))
	assert.False(t, auth.CheckPasswordHash("hunter3hunter3", hash))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := auth.HashPassword(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, auth.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}
