package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the tests fast
var testParams = Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 8, KeyLen: 16}

func TestHashAndVerify(t *testing.T) {
	h := HashPassword("correct horse", testParams)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := VerifyPassword("correct horse", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("battery staple", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	assert.NotEqual(t, HashPassword("pw", testParams), HashPassword("pw", testParams))
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	}
	for _, enc := range tests {
		t.Run(enc, func(t *testing.T) {
			_, err := VerifyPassword("pw", enc)
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}
