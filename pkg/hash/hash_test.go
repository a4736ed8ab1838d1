package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", h)

	assert.True(t, CheckPassword(h, "Secret123"))
	assert.False(t, CheckPassword(h, "secret123"))
	assert.False(t, CheckPassword("not-a-hash", "Secret123"))
}
