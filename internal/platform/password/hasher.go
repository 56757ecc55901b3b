// Package password provides the credential hashers used to store and verify user passwords.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// AlgorithmSHA256 is the default, unsalted digest kept for compatibility with existing records.
	AlgorithmSHA256 = "sha256"
	// AlgorithmBcrypt is the salted, cost-based alternative.
	AlgorithmBcrypt = "bcrypt"
)

// ErrPasswordTooLong is returned by Hash when the plaintext exceeds what the algorithm can digest.
var ErrPasswordTooLong = errors.New("password too long")

// Hasher turns a plaintext password into a stored digest and checks attempts against it.
type Hasher interface {
	// Hash returns the digest to persist for the given plaintext.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored digest.
	Verify(plaintext, digest string) bool
}

// NewHasher returns the Hasher registered under algorithm.
func NewHasher(algorithm string) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmSHA256:
		return SHA256Hasher{}, nil
	case AlgorithmBcrypt:
		return NewBcryptHasher(bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
}

// SHA256Hasher hashes with a single SHA-256 round and encodes the result as lowercase hex.
// The output is deterministic and carries no salt or work factor, so it is not suitable
// for new credential stores; it exists to keep digests produced by earlier deployments valid.
type SHA256Hasher struct{}

// Hash never fails.
func (SHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest and compares it in constant time.
func (h SHA256Hasher) Verify(plaintext, digest string) bool {
	computed, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// BcryptHasher stores salted bcrypt digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

// Hash generates a new salted digest on every call.
func (h BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: bcrypt accepts at most 72 bytes", ErrPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plaintext against a bcrypt digest. Malformed digests never verify.
func (h BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
