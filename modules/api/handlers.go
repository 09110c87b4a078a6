package api

import (
	"errors"

	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	"github.com/bkluczynski-zz/node-todo-app/modules/account"
	"github.com/bkluczynski-zz/node-todo-app/modules/activity"
	"github.com/bkluczynski-zz/node-todo-app/modules/todo"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	todos    todo.TodoPort
	accounts account.AccountPort
	feed     activity.ActivityPort
	scoped   bool
}

// NewHandlers creates a new Handlers instance. When scoped is true every
// task operation and the activity feed are restricted to the authenticated account.
func NewHandlers(todos todo.TodoPort, accounts account.AccountPort, feed activity.ActivityPort, scoped bool) *Handlers {
	return &Handlers{
		todos:    todos,
		accounts: accounts,
		feed:     feed,
		scoped:   scoped,
	}
}

func (h *Handlers) owner(c *fiber.Ctx) string {
	if !h.scoped {
		return ""
	}
	if acc := currentAccount(c); acc != nil {
		return acc.ID
	}
	return ""
}

// CreateTodo handles POST /todos.
func (h *Handlers) CreateTodo(c *fiber.Ctx) error {
	var req CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	created, err := h.todos.CreateTodo(c.UserContext(), h.owner(c), req.Text)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(created)
}

// ListTodos handles GET /todos.
func (h *Handlers) ListTodos(c *fiber.Ctx) error {
	todos, err := h.todos.ListTodos(c.UserContext(), h.owner(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TodosResponse{Todos: todos})
}

// GetTodo handles GET /todos/:id.
func (h *Handlers) GetTodo(c *fiber.Ctx) error {
	id := c.Params("id")
	if !todo.ValidID(id) {
		return emptyStatus(c, fiber.StatusNotFound)
	}

	found, err := h.todos.GetTodo(c.UserContext(), id, h.owner(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TodoEnvelope{Todo: found})
}

// DeleteTodo handles DELETE /todos/:id.
func (h *Handlers) DeleteTodo(c *fiber.Ctx) error {
	id := c.Params("id")
	if !todo.ValidID(id) {
		return emptyStatus(c, fiber.StatusNotFound)
	}

	deleted, err := h.todos.DeleteTodo(c.UserContext(), id, h.owner(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TodoEnvelope{Todo: deleted})
}

// PatchTodo handles PATCH /todos/:id.
func (h *Handlers) PatchTodo(c *fiber.Ctx) error {
	id := c.Params("id")
	if !todo.ValidID(id) {
		return emptyStatus(c, fiber.StatusNotFound)
	}

	var req PatchTodoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	updated, err := h.todos.PatchTodo(c.UserContext(), id, h.owner(c), req.Patch())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TodoEnvelope{Todo: updated})
}

// Register handles POST /users.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := h.accounts.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(AuthHeader, session.Token)
	return c.JSON(session.Account.Public())
}

// Login handles POST /users/login. Bad credentials yield 400 with an empty body.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			return emptyStatus(c, fiber.StatusBadRequest)
		}
		return writeError(c, err)
	}

	c.Set(AuthHeader, session.Token)
	return c.JSON(session.Account.Public())
}

// Me handles GET /users/me.
func (h *Handlers) Me(c *fiber.Ctx) error {
	acc := currentAccount(c)
	if acc == nil {
		return emptyStatus(c, fiber.StatusUnauthorized)
	}
	return c.JSON(acc.Public())
}

// Logout handles DELETE /users/me/token.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	acc := currentAccount(c)
	if acc == nil {
		return emptyStatus(c, fiber.StatusUnauthorized)
	}

	if err := h.accounts.Logout(c.UserContext(), acc.ID, currentToken(c)); err != nil {
		return writeError(c, err)
	}

	return emptyStatus(c, fiber.StatusOK)
}

// ListActivity handles GET /activity?limit=N.
func (h *Handlers) ListActivity(c *fiber.Ctx) error {
	entries, err := h.feed.RecentActivity(c.UserContext(), h.owner(c), c.QueryInt("limit", activity.DefaultLimit))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(ActivityResponse{
		Activity: entries,
		Total:    len(entries),
	})
}
