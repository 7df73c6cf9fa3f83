// Package crypto implements token material generation and share-link PIN hashing.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// NewToken returns an opaque, unguessable URL-safe token from n random
// bytes. 32 bytes gives 256 bits of entropy, which makes exact-match
// lookup safe without any rate limiting on the token itself.
func NewToken(n int) (string, error) {
	b, err := RandBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashPIN returns the Argon2id hash of a share-link PIN using the provided salt.
func HashPIN(pin, salt []byte) []byte {
	return argon2.IDKey(pin, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPIN verifies a PIN against the expected Argon2id hash and salt.
func VerifyPIN(pin, salt, expected []byte) bool {
	got := HashPIN(pin, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
