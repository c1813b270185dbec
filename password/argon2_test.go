package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()

	hasher, err := NewHasher(Config{Memory: 8 * 1024, Time: 1, Parallelism: 1})
	require.NoError(t, err)

	return hasher
}

func TestNewHasherDefaults(t *testing.T) {
	hasher, err := NewHasher(Config{})
	require.NoError(t, err)

	encoded, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))
}

func TestNewHasherRejectsWeakParameters(t *testing.T) {
	_, err := NewHasher(Config{Memory: 1024})
	require.Error(t, err)

	_, err = NewHasher(Config{SaltLength: 8})
	require.Error(t, err)

	_, err = NewHasher(Config{KeyLength: 8})
	require.Error(t, err)
}

func TestHashVerifyRoundtrip(t *testing.T) {
	hasher := newTestHasher(t)

	encoded, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)

	match, err := hasher.Verify("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Verify("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashesAreSalted(t *testing.T) {
	hasher := newTestHasher(t)

	first, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	second, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyUsesEmbeddedParameters(t *testing.T) {
	slow, err := NewHasher(Config{Memory: 16 * 1024, Time: 3, Parallelism: 2})
	require.NoError(t, err)

	encoded, err := slow.Hash("s3cret")
	require.NoError(t, err)

	// A hasher configured differently still verifies: parameters travel in
	// the PHC string.
	match, err := newTestHasher(t).Verify("s3cret", encoded)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyRejectsMangledHashes(t *testing.T) {
	hasher := newTestHasher(t)

	for _, encoded := range []string{
		"",
		"plain garbage",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=bad$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$",
	} {
		_, err := hasher.Verify("s3cret", encoded)
		assert.Error(t, err, "hash %q", encoded)
	}
}
