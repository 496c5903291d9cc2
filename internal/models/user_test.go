package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	user := &User{Username: "foo"}

	err := user.SetPassword("password")
	require.NoError(t, err)

	// Digest stored, never plaintext
	assert.NotEqual(t, "password", user.Password)
	assert.NotEmpty(t, user.Password)

	assert.True(t, user.VerifyPassword("password"))
	assert.False(t, user.VerifyPassword("wrong"))
}
