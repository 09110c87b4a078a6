package account

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/golang-jwt/jwt/v5"
	nanoid "github.com/jaevor/go-nanoid"
)

var (
	// ErrInvalidToken is returned when a token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token carries an elapsed exp claim.
	ErrExpiredToken = errors.New("token has expired")
)

// TokenConfig configures token signing.
type TokenConfig struct {
	Secret string
	Issuer string
	// TTL of zero issues tokens without an exp claim.
	TTL time.Duration
}

// tokenClaims is the signed payload of a session token.
type tokenClaims struct {
	AccountID string `json:"_id"`
	Access    string `json:"access"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	config TokenConfig
	newID  func() string
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(config TokenConfig) (*TokenManager, error) {
	if config.Secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	newID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to create token id generator: %w", err)
	}
	return &TokenManager{config: config, newID: newID}, nil
}

// Generate signs a new token for the account and purpose.
func (m *TokenManager) Generate(accountID, access string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		AccountID: accountID,
		Access:    access,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       m.newID(),
			Issuer:   m.config.Issuer,
			Subject:  accountID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.config.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.config.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Secret))
}

// Verify checks the signature and expiry of tokenString and returns its claims.
func (m *TokenManager) Verify(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		AccountID: claims.AccountID,
		Access:    claims.Access,
	}, nil
}
