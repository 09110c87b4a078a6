package account

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "password89"},
		{name: "complex password", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", password: "hasło123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == "" || hash == tt.password {
				t.Fatalf("Hash() returned %q", hash)
			}
			if !hasher.Verify(tt.password, hash) {
				t.Error("Verify() returned false for correct password")
			}
		})
	}
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("differentPassword")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("differentPassword")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("expected distinct hashes for the same password")
	}
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	hash, err := hasher.Hash("password89")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: "password89", hash: hash, want: true},
		{name: "wrong password", password: "password88", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "malformed hash", password: "password89", hash: "not-a-hash", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.Verify(tt.password, tt.hash); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	hasher := NewPasswordHasher()
	if hasher.cost != DefaultBcryptCost {
		t.Errorf("expected cost %d, got %d", DefaultBcryptCost, hasher.cost)
	}
}

func TestPasswordHasher_RejectsOverlongPasswords(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	if _, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("Hash() error = %v for a password at the limit", err)
	}

	_, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
