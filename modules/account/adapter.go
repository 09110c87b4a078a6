package account

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AccountPort defines the account operations other modules use.
type AccountPort interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
	Logout(ctx context.Context, accountID, token string) error
}

// AccountAdapter implements AccountPort using the service container.
type AccountAdapter struct {
	container mono.ServiceContainer
}

var _ AccountPort = (*AccountAdapter)(nil)

// NewAccountAdapter creates a new AccountAdapter.
func NewAccountAdapter(container mono.ServiceContainer) *AccountAdapter {
	return &AccountAdapter{
		container: container,
	}
}

// Register registers an account via the register service.
func (a *AccountAdapter) Register(ctx context.Context, email, password string) (*Session, error) {
	req := CredentialsRequest{Email: email, Password: password}
	var resp SessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"register",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}

	return sessionFromResponse(resp)
}

// Login logs an account in via the login service.
func (a *AccountAdapter) Login(ctx context.Context, email, password string) (*Session, error) {
	req := CredentialsRequest{Email: email, Password: password}
	var resp SessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	return sessionFromResponse(resp)
}

// Authenticate resolves a token via the authenticate service.
func (a *AccountAdapter) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	req := AuthenticateRequest{Token: token}
	var resp AccountResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"authenticate",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("authenticate request failed: %w", err)
	}

	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}

	return &domain.Account{
		ID:    resp.ID,
		Email: resp.Email,
	}, nil
}

// Logout revokes a token via the logout service.
func (a *AccountAdapter) Logout(ctx context.Context, accountID, token string) error {
	req := LogoutRequest{AccountID: accountID, Token: token}
	var resp LogoutResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"logout",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}

	return resp.Fault.Err()
}

func sessionFromResponse(resp SessionResponse) (*Session, error) {
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	return &Session{
		Account: &domain.Account{ID: resp.ID, Email: resp.Email},
		Token:   resp.Token,
	}, nil
}
