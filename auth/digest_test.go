package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestKnownValues(t *testing.T) {
	// Digest of "secret" under each supported algorithm.
	cases := map[string]string{
		"sha1":   "e5e9fa1ba31ecd1ae84f75caaa474f3a663f05f4",
		"sha256": "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b",
		"sha512": "bd2b1aaf7ef4f09be9f52ce2d8d599674d81aa9d6a4421696dc4d93dd0619d682ce56b4d64a9ef097761ced99e0f67265b5f76085e5b0ee7ca4696b2ad6fe2b2",
	}
	for algo, want := range cases {
		got, ok := Digest(algo, "secret")
		assert.True(t, ok, algo)
		assert.Equal(t, want, got, algo)
	}
}

func TestDigestDeterministic(t *testing.T) {
	a, ok := Digest("sha224", "hunter2")
	assert.True(t, ok)
	b, ok := Digest("sha224", "hunter2")
	assert.True(t, ok)
	assert.Equal(t, a, b)

	c, ok := Digest("sha384", "hunter2")
	assert.True(t, ok)
	assert.NotEqual(t, a, c)
}

func TestDigestUnsupportedAlgorithm(t *testing.T) {
	_, ok := Digest("md5", "secret")
	assert.False(t, ok)
	_, ok = Digest("", "secret")
	assert.False(t, ok)
}
