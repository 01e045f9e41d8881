package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const (
	// DefaultSecretSize is the number of random bytes behind one token plaintext.
	DefaultSecretSize = 32

	// MinSecretSize is the smallest secret width the manager accepts.
	MinSecretSize = 16
)

// NewTokenPlaintext draws size bytes from crypto/rand and returns the
// URL-safe plaintext handed to callers. The plaintext is never persisted.
func NewTokenPlaintext(size int) (string, error) {
	if size < MinSecretSize {
		return "", errors.New("token secret size too small")
	}

	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}

	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(secret), nil
}

// HashToken derives the storage key for a token plaintext: the SHA-256 hex
// digest. One-way and unkeyed; possession of the plaintext is the lookup path.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
