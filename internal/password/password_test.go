package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("opensesame")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("opensesame", encoded))
	assert.False(t, Verify("opensesame ", encoded))
	assert.False(t, Verify("wrong", encoded))
}

func TestHashSaltsEveryCall(t *testing.T) {
	first, err := Hash("same-input")
	require.NoError(t, err)
	second, err := Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("same-input", first))
	assert.True(t, Verify("same-input", second))
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	} {
		assert.False(t, Verify("anything", encoded), "encoded=%q", encoded)
	}
}
