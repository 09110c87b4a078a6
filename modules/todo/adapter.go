package todo

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TodoPort is the interface other modules use to work with tasks. An empty
// ownerID addresses every task.
type TodoPort interface {
	CreateTodo(ctx context.Context, ownerID, text string) (*domain.Todo, error)
	ListTodos(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	GetTodo(ctx context.Context, id, ownerID string) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id, ownerID string) (*domain.Todo, error)
	PatchTodo(ctx context.Context, id, ownerID string, patch domain.Patch) (*domain.Todo, error)
}

// todoAdapter implements TodoPort over the todo module's service container.
type todoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates a TodoPort backed by request-reply calls.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	if container == nil {
		panic("todo adapter requires non-nil ServiceContainer")
	}
	return &todoAdapter{container: container}
}

// CreateTodo creates a task via the create-todo service.
func (a *todoAdapter) CreateTodo(ctx context.Context, ownerID, text string) (*domain.Todo, error) {
	req := CreateTodoRequest{OwnerID: ownerID, Text: text}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-todo",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-todo service call failed: %w", err)
	}
	return unwrapTodo(resp)
}

// ListTodos lists tasks via the list-todos service.
func (a *todoAdapter) ListTodos(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	req := ListTodosRequest{OwnerID: ownerID}
	var resp ListTodosResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-todos",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-todos service call failed: %w", err)
	}
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	if resp.Todos == nil {
		resp.Todos = make([]*domain.Todo, 0)
	}
	return resp.Todos, nil
}

// GetTodo retrieves a task via the get-todo service.
func (a *todoAdapter) GetTodo(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	req := TodoRequest{ID: id, OwnerID: ownerID}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-todo",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-todo service call failed: %w", err)
	}
	return unwrapTodo(resp)
}

// DeleteTodo deletes a task via the delete-todo service.
func (a *todoAdapter) DeleteTodo(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	req := TodoRequest{ID: id, OwnerID: ownerID}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-todo",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("delete-todo service call failed: %w", err)
	}
	return unwrapTodo(resp)
}

// PatchTodo updates a task via the patch-todo service.
func (a *todoAdapter) PatchTodo(ctx context.Context, id, ownerID string, patch domain.Patch) (*domain.Todo, error) {
	req := PatchTodoRequest{ID: id, OwnerID: ownerID, Patch: patch}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"patch-todo",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("patch-todo service call failed: %w", err)
	}
	return unwrapTodo(resp)
}

func unwrapTodo(resp TodoResponse) (*domain.Todo, error) {
	if err := resp.Fault.Err(); err != nil {
		return nil, err
	}
	if resp.Todo == nil {
		return nil, fmt.Errorf("empty todo response")
	}
	return resp.Todo, nil
}
