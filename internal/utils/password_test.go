package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestKnownVector(t *testing.T) {
	// printf %s alice01 | openssl dgst -sha512
	assert.Equal(t,
		"6d046a48f4a9d4987938a4ee7c075850268387f09a2e30f214018ef0640255e2be6af9d4f4ed655ec2f02bd250319027cb27d02551f47cb8303c278ece5a5c47",
		Digest("alice01"))
}

func TestSaltIsDigestOfAccountName(t *testing.T) {
	assert.Equal(t, Digest("alice01"), Salt("alice01"))
}

func TestPasshashKnownVector(t *testing.T) {
	assert.Equal(t,
		"ec6b72d34e9715dfabfbbd0aaebd42e39a8a51cb3385719ef65b37f0d073e9101cd8664dcbd666a1a1b51d7dcac6cc04d4f36abe6798ff50ec2d2fd65596f8a1",
		Passhash("alice01", "secret123"))
}

func TestPasshashDeterministic(t *testing.T) {
	assert.Equal(t, Passhash("alice01", "secret123"), Passhash("alice01", "secret123"))
}

func TestPasshashDependsOnBothInputs(t *testing.T) {
	base := Passhash("alice01", "secret123")
	assert.NotEqual(t, base, Passhash("alice02", "secret123"))
	assert.NotEqual(t, base, Passhash("alice01", "secret124"))
}
