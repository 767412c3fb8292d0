package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("correct horse battery stapl", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("hunter22")
	require.NoError(t, err)
	second, err := HashPassword("hunter22")
	require.NoError(t, err)

	// Fresh salt every time, so the encodings differ but both verify.
	assert.NotEqual(t, string(first), string(second))

	for _, hash := range [][]byte{first, second} {
		ok, err := VerifyPassword("hunter22", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"not a hash",
		"$argon2id$v=19$m=65536,t=2,p=4$only-four-parts",
		"$bcrypt$v=19$m=65536,t=2,p=4$c2FsdA$aGFzaA",
	} {
		_, err := VerifyPassword("whatever", []byte(bad))
		assert.Error(t, err, "input %q", bad)
	}
}

func TestVerifyPasswordUsesEmbeddedParams(t *testing.T) {
	hash, err := HashPassword("some password")
	require.NoError(t, err)

	// Verification must read parameters from the hash itself, not from the
	// current defaults, so stored hashes survive a parameter bump.
	parts := strings.Split(string(hash), "$")
	require.Len(t, parts, 6)
	assert.Contains(t, parts[3], "m=")
	assert.Contains(t, parts[3], "t=")
	assert.Contains(t, parts[3], "p=")
}
