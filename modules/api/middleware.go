package api

import (
	"errors"
	"log"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	"github.com/bkluczynski-zz/node-todo-app/modules/account"
	"github.com/gofiber/fiber/v2"
)

const (
	// AuthHeader carries the session token on requests and responses.
	AuthHeader = "x-auth"
	// AccountContextKey is the key used to store the authenticated account.
	AccountContextKey = "account"
	// TokenContextKey is the key used to store the raw session token.
	TokenContextKey = "token"
)

// AuthMiddleware resolves the x-auth token to an account. Any failure ends
// the request with 401 and an empty body.
func AuthMiddleware(accounts account.AccountPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(AuthHeader)
		if token == "" {
			return emptyStatus(c, fiber.StatusUnauthorized)
		}

		acc, err := accounts.Authenticate(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, apperror.ErrUnauthorized) {
				log.Printf("[api] Authentication failed: %v", err)
			}
			return emptyStatus(c, fiber.StatusUnauthorized)
		}

		c.Locals(AccountContextKey, acc)
		c.Locals(TokenContextKey, token)

		return c.Next()
	}
}

// currentAccount returns the account stored by AuthMiddleware, or nil.
func currentAccount(c *fiber.Ctx) *domain.Account {
	acc, _ := c.Locals(AccountContextKey).(*domain.Account)
	return acc
}

// currentToken returns the token stored by AuthMiddleware.
func currentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(TokenContextKey).(string)
	return token
}
