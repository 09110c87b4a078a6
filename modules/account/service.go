package account

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	"github.com/bkluczynski-zz/node-todo-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Session is an account together with a freshly issued token.
type Session struct {
	Account *domain.Account
	Token   string
}

// credentials is validated on registration.
type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Service implements registration, login and token authentication.
type Service struct {
	repo     Repository
	hasher   *PasswordHasher
	tokens   *TokenManager
	validate *validator.Validate
	eventBus mono.EventBus
}

var _ AccountPort = (*Service)(nil)

// NewService creates a new Service. eventBus may be nil.
func NewService(repo Repository, hasher *PasswordHasher, tokens *TokenManager, eventBus mono.EventBus) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		eventBus: eventBus,
	}
}

// Register creates an account and issues its first token.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	creds := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.validateCredentials(creds); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, creds.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, errEmailTaken()
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.New().String(),
		Email:        creds.Email,
		PasswordHash: hash,
	}
	token, err := s.tokens.Generate(account.ID, domain.AccessAuth)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	account.Tokens = []domain.Token{{Access: domain.AccessAuth, Token: token}}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, errEmailTaken()
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if s.eventBus != nil {
		event := events.AccountRegisteredEvent{
			AccountID:    account.ID,
			Email:        account.Email,
			RegisteredAt: time.Now(),
		}
		if err := events.AccountRegisteredV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[account] Warning: failed to publish AccountRegistered event for %s: %v", account.ID, err)
		}
	}

	return &Session{Account: account, Token: token}, nil
}

// Login verifies credentials and appends a new token to the account.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, errInvalidCredentials()
	}

	token, err := s.tokens.Generate(account.ID, domain.AccessAuth)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	issued := domain.Token{Access: domain.AccessAuth, Token: token}
	if err := s.repo.AddToken(ctx, account.ID, issued); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	account.Tokens = append(account.Tokens, issued)

	return &Session{Account: account, Token: token}, nil
}

// Authenticate resolves the account holding token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, apperror.Unauthorized("token is required")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, apperror.Unauthorized("token expired")
		}
		return nil, apperror.Unauthorized("invalid token")
	}
	if claims.Access != domain.AccessAuth {
		return nil, apperror.Unauthorized("invalid token")
	}

	account, err := s.repo.FindByToken(ctx, claims.AccountID, domain.AccessAuth, token)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, apperror.Unauthorized("token revoked")
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// Logout revokes token for the account.
func (s *Service) Logout(ctx context.Context, accountID, token string) error {
	if err := s.repo.RemoveToken(ctx, accountID, token); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return apperror.Unauthorized("account not found")
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) validateCredentials(creds credentials) error {
	err := s.validate.Struct(creds)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate credentials: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperror.Validation("account validation failed", fields)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email", fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func errEmailTaken() error {
	return apperror.Conflict("email", ErrEmailTaken.Error())
}

func errInvalidCredentials() error {
	return apperror.Unauthorized("invalid email or password")
}
