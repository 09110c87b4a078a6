package api

import (
	domaintodo "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/bkluczynski-zz/node-todo-app/modules/activity"
)

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// PatchTodoRequest is the body of PATCH /todos/:id. Completed is untyped so
// that any value other than boolean true clears completion.
type PatchTodoRequest struct {
	Text      *string `json:"text"`
	Completed any     `json:"completed"`
}

// Patch converts the request into the domain patch.
func (r PatchTodoRequest) Patch() domaintodo.Patch {
	completed, _ := r.Completed.(bool)
	return domaintodo.Patch{Text: r.Text, Completed: completed}
}

// TodoEnvelope wraps a single task.
type TodoEnvelope struct {
	Todo *domaintodo.Todo `json:"todo"`
}

// TodosResponse wraps the task list.
type TodosResponse struct {
	Todos []*domaintodo.Todo `json:"todos"`
}

// ActivityResponse lists recent activity, newest first.
type ActivityResponse struct {
	Activity []activity.Entry `json:"activity"`
	Total    int              `json:"total"`
}

// CredentialsRequest is the body of POST /users and POST /users/login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationErrorResponse lists per-field failures.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
