// Package crypto implements the operator login proof. A client signs its
// login secret with its NaCl signing key, seals the signed message to the
// server's box key, and sends the result base64-encoded. The server opens
// the box with its private key and then opens the signature with the
// operator's verify key; only the holder of the operator's signing key can
// produce a blob that survives both steps.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/sign"

	"teamserver/errs"
)

// ServerKeyPair is the server's NaCl box keypair. Operators seal their login
// proofs to the public half; only the server can open them.
type ServerKeyPair struct {
	Public  *[32]byte
	Private *[32]byte
}

// GenerateServerKeyPair creates a fresh server box keypair.
func GenerateServerKeyPair() (*ServerKeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ServerKeyPair{Public: pub, Private: priv}, nil
}

// ParseServerKeyPair decodes a base64 keypair, typically read from the
// environment at startup.
func ParseServerKeyPair(publicB64, privateB64 string) (*ServerKeyPair, error) {
	pub, err := decodeKey32(publicB64)
	if err != nil {
		return nil, err
	}
	priv, err := decodeKey32(privateB64)
	if err != nil {
		return nil, err
	}
	return &ServerKeyPair{Public: pub, Private: priv}, nil
}

// EncodePublic returns the base64 form of the server public key, the value
// handed to operator tooling at provisioning time.
func (kp *ServerKeyPair) EncodePublic() string {
	return base64.StdEncoding.EncodeToString(kp.Public[:])
}

// EncodePrivate returns the base64 form of the server private key.
func (kp *ServerKeyPair) EncodePrivate() string {
	return base64.StdEncoding.EncodeToString(kp.Private[:])
}

// GenerateOperatorKeyPair creates a NaCl signing keypair for a new operator.
// The base64 verify key is what gets stored in the operator row; the private
// key stays with the operator.
func GenerateOperatorKeyPair() (verifyKeyB64 string, signingKey *[64]byte, err error) {
	pub, priv, err := sign.GenerateKey(rand.Reader)
	if err != nil {
		return "", nil, err
	}
	return base64.StdEncoding.EncodeToString(pub[:]), priv, nil
}

// SignAndSeal produces the login proof a client submits in the X-Signature
// header: base64(seal(sign(message, signingKey), serverPublicKey)).
func SignAndSeal(message []byte, signingKey *[64]byte, serverPublic *[32]byte) (string, error) {
	signed := sign.Sign(nil, message, signingKey)
	sealed, err := box.SealAnonymous(nil, signed, serverPublic, rand.Reader)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// VerifyChallenge opens a submitted login proof and returns the signed
// plaintext. Every failure mode returns the same error so callers cannot
// distinguish a bad box from a bad signature from a bad key.
func VerifyChallenge(kp *ServerKeyPair, operatorVerifyKeyB64, blobB64 string) ([]byte, error) {
	verifyKey, err := decodeKey32(operatorVerifyKeyB64)
	if err != nil {
		return nil, errs.ErrAuthentication
	}
	sealed, err := base64.StdEncoding.DecodeString(blobB64)
	if err != nil {
		return nil, errs.ErrAuthentication
	}
	signed, ok := box.OpenAnonymous(nil, sealed, kp.Public, kp.Private)
	if !ok {
		return nil, errs.ErrAuthentication
	}
	plaintext, ok := sign.Open(nil, signed, verifyKey)
	if !ok {
		return nil, errs.ErrAuthentication
	}
	return plaintext, nil
}

// SecretsEqual compares a decrypted challenge against the stored login
// secret in constant time.
func SecretsEqual(plaintext []byte, secret string) bool {
	return subtle.ConstantTimeCompare(plaintext, []byte(secret)) == 1
}

func decodeKey32(b64 string) (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, errs.ErrAuthentication
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}
