// Package digest computes content digests for document bytes.
//
// The digest is the sole basis of content addressing: it is computed over
// the exact byte content only, never over metadata, and rendered as
// lowercase hex.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Algorithm identifies the fixed digest algorithm.
const Algorithm = "sha256"

// HexLen is the length of a rendered digest.
const HexLen = sha256.Size * 2

// Sum streams r through SHA-256 and returns the lowercase hex digest.
// Memory use is bounded regardless of input size.
func Sum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumBytes returns the lowercase hex SHA-256 digest of b.
func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Valid reports whether s is a well-formed digest (64 lowercase hex chars).
func Valid(s string) bool {
	if len(s) != HexLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
