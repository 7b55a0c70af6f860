package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamserver/errs"
)

func TestVerifyChallengeValidProof(t *testing.T) {
	server, err := GenerateServerKeyPair()
	require.NoError(t, err)
	verifyKey, signingKey, err := GenerateOperatorKeyPair()
	require.NoError(t, err)

	secret := "s3cr3t-login-value"
	blob, err := SignAndSeal([]byte(secret), signingKey, server.Public)
	require.NoError(t, err)

	plaintext, err := VerifyChallenge(server, verifyKey, blob)
	require.NoError(t, err)
	assert.Equal(t, secret, string(plaintext))
	assert.True(t, SecretsEqual(plaintext, secret))
}

func TestVerifyChallengeBitFlip(t *testing.T) {
	server, err := GenerateServerKeyPair()
	require.NoError(t, err)
	verifyKey, signingKey, err := GenerateOperatorKeyPair()
	require.NoError(t, err)

	blob, err := SignAndSeal([]byte("secret"), signingKey, server.Public)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flipping any single byte must break either the box or the
	// signature; no position yields success.
	for i := 0; i < len(raw); i += 7 {
		mangled := make([]byte, len(raw))
		copy(mangled, raw)
		mangled[i] ^= 0x01
		_, verr := VerifyChallenge(server, verifyKey, base64.StdEncoding.EncodeToString(mangled))
		assert.ErrorIs(t, verr, errs.ErrAuthentication, "flip at %d", i)
	}
}

func TestVerifyChallengeWrongOperatorKey(t *testing.T) {
	server, err := GenerateServerKeyPair()
	require.NoError(t, err)
	_, signingKey, err := GenerateOperatorKeyPair()
	require.NoError(t, err)
	otherVerifyKey, _, err := GenerateOperatorKeyPair()
	require.NoError(t, err)

	blob, err := SignAndSeal([]byte("secret"), signingKey, server.Public)
	require.NoError(t, err)

	_, verr := VerifyChallenge(server, otherVerifyKey, blob)
	assert.ErrorIs(t, verr, errs.ErrAuthentication)
}

func TestVerifyChallengeWrongServerKey(t *testing.T) {
	server, err := GenerateServerKeyPair()
	require.NoError(t, err)
	otherServer, err := GenerateServerKeyPair()
	require.NoError(t, err)
	verifyKey, signingKey, err := GenerateOperatorKeyPair()
	require.NoError(t, err)

	blob, err := SignAndSeal([]byte("secret"), signingKey, server.Public)
	require.NoError(t, err)

	_, verr := VerifyChallenge(otherServer, verifyKey, blob)
	assert.ErrorIs(t, verr, errs.ErrAuthentication)
}

func TestVerifyChallengeGarbageInputs(t *testing.T) {
	server, err := GenerateServerKeyPair()
	require.NoError(t, err)
	verifyKey, _, err := GenerateOperatorKeyPair()
	require.NoError(t, err)

	cases := []struct{ verifyKey, blob string }{
		{verifyKey, "not-base64!!"},
		{verifyKey, base64.StdEncoding.EncodeToString([]byte("short"))},
		{"bad key", base64.StdEncoding.EncodeToString(make([]byte, 128))},
		{base64.StdEncoding.EncodeToString([]byte("wrong-size")), base64.StdEncoding.EncodeToString(make([]byte, 128))},
	}
	for _, tc := range cases {
		_, verr := VerifyChallenge(server, tc.verifyKey, tc.blob)
		assert.ErrorIs(t, verr, errs.ErrAuthentication)
	}
}

func TestSecretsEqualMismatch(t *testing.T) {
	assert.False(t, SecretsEqual([]byte("secret"), "Secret"))
	assert.False(t, SecretsEqual([]byte("secret"), "secret "))
	assert.False(t, SecretsEqual(nil, "secret"))
	assert.True(t, SecretsEqual([]byte(""), ""))
}

func TestServerKeyPairEncodeParse(t *testing.T) {
	server, err := GenerateServerKeyPair()
	require.NoError(t, err)

	parsed, err := ParseServerKeyPair(server.EncodePublic(), server.EncodePrivate())
	require.NoError(t, err)
	assert.Equal(t, server.Public, parsed.Public)
	assert.Equal(t, server.Private, parsed.Private)

	_, err = ParseServerKeyPair("nope", server.EncodePrivate())
	assert.Error(t, err)
}
