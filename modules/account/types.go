package account

import (
	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
)

// CredentialsRequest is the request for the register and login services.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the response of the register and login services.
type SessionResponse struct {
	ID    string          `json:"id,omitempty"`
	Email string          `json:"email,omitempty"`
	Token string          `json:"token,omitempty"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}

// AuthenticateRequest is the request for the authenticate service.
type AuthenticateRequest struct {
	Token string `json:"token"`
}

// AccountResponse is the response of the authenticate service.
type AccountResponse struct {
	ID    string          `json:"id,omitempty"`
	Email string          `json:"email,omitempty"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}

// LogoutRequest is the request for the logout service.
type LogoutRequest struct {
	AccountID string `json:"account_id"`
	Token     string `json:"token"`
}

// LogoutResponse is the response of the logout service.
type LogoutResponse struct {
	Fault *apperror.Fault `json:"fault,omitempty"`
}
