package todo

import (
	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
)

// CreateTodoRequest is the request for the create-todo service.
type CreateTodoRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
	Text    string `json:"text"`
}

// ListTodosRequest is the request for the list-todos service.
type ListTodosRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
}

// TodoRequest addresses a single task for the get-todo and delete-todo services.
type TodoRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`
}

// PatchTodoRequest is the request for the patch-todo service.
type PatchTodoRequest struct {
	ID      string       `json:"id"`
	OwnerID string       `json:"owner_id,omitempty"`
	Patch   domain.Patch `json:"patch"`
}

// TodoResponse carries a single task or a domain fault.
type TodoResponse struct {
	Todo  *domain.Todo    `json:"todo,omitempty"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}

// ListTodosResponse carries the task list or a domain fault.
type ListTodosResponse struct {
	Todos []*domain.Todo  `json:"todos"`
	Fault *apperror.Fault `json:"fault,omitempty"`
}
