package account

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the cost used for Account.PasswordHash.
	DefaultBcryptCost = 12
	// MaxPasswordBytes is the longest password bcrypt reads in full. Registration
	// rejects longer passwords instead of letting the tail be ignored.
	MaxPasswordBytes = 72
)

// PasswordHasher turns registration passwords into stored hashes and checks
// login attempts against them.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with DefaultBcryptCost.
func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithCost(DefaultBcryptCost)
}

// NewPasswordHasherWithCost creates a PasswordHasher with the given cost.
// Tests use bcrypt.MinCost.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns the value stored in Account.PasswordHash.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password longer than %d bytes: %w", MaxPasswordBytes, bcrypt.ErrPasswordTooLong)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether a login password matches the stored hash. A
// malformed hash never matches.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
