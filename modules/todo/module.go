package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/bkluczynski-zz/node-todo-app/events"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module owns task persistence and exposes it as request-reply services.
type Module struct {
	db       *database.PluginModule
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new todo Module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "todo"
}

// SetPlugin receives the database plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != database.PluginAlias {
		return
	}
	if dbPlugin, ok := plugin.(*database.PluginModule); ok {
		m.db = dbPlugin
		log.Println("[todo] Database plugin injected")
	}
}

// SetEventBus receives the event bus used to publish task events.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events published by this module.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TodoCreatedV1.ToBase(),
		events.TodoCompletedV1.ToBase(),
		events.TodoDeletedV1.ToBase(),
	}
}

// Start builds the repository for the injected store and runs migrations.
func (m *Module) Start(ctx context.Context) error {
	if m.db == nil || m.db.Store() == nil {
		return fmt.Errorf("database plugin not set - ensure '%s' plugin is registered", database.PluginAlias)
	}

	repo, err := NewRepository(m.db.Store())
	if err != nil {
		return err
	}
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate todos: %w", err)
	}

	m.service = NewService(repo, m.eventBus)

	if m.eventBus == nil {
		log.Println("[todo] Warning: eventBus not set, events will not be published")
	}
	log.Printf("[todo] Module started (store: %s)", m.db.Store().Driver())
	return nil
}

// Stop stops the module. The store itself is closed by the database plugin.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[todo] Module stopped")
	return nil
}

// Health reports whether the module is ready to serve.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"create-todo",
		json.Unmarshal,
		json.Marshal,
		m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"list-todos",
		json.Unmarshal,
		json.Marshal,
		m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list-todos service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-todo",
		json.Unmarshal,
		json.Marshal,
		m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"delete-todo",
		json.Unmarshal,
		json.Marshal,
		m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"patch-todo",
		json.Unmarshal,
		json.Marshal,
		m.handlePatch,
	); err != nil {
		return fmt.Errorf("failed to register patch-todo service: %w", err)
	}

	log.Printf("[todo] Registered services: create-todo, list-todos, get-todo, delete-todo, patch-todo")
	return nil
}

func (m *Module) handleCreate(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return todoReply(m.service.CreateTodo(ctx, req.OwnerID, req.Text))
}

func (m *Module) handleList(ctx context.Context, req ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	todos, err := m.service.ListTodos(ctx, req.OwnerID)
	if err != nil {
		if fault := apperror.ToFault(err); fault != nil {
			return ListTodosResponse{Fault: fault}, nil
		}
		return ListTodosResponse{}, err
	}
	return ListTodosResponse{Todos: todos}, nil
}

func (m *Module) handleGet(ctx context.Context, req TodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return todoReply(m.service.GetTodo(ctx, req.ID, req.OwnerID))
}

func (m *Module) handleDelete(ctx context.Context, req TodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return todoReply(m.service.DeleteTodo(ctx, req.ID, req.OwnerID))
}

func (m *Module) handlePatch(ctx context.Context, req PatchTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return todoReply(m.service.PatchTodo(ctx, req.ID, req.OwnerID, req.Patch))
}

// todoReply returns domain failures inside the response and everything else
// as a transport error.
func todoReply(todo *domain.Todo, err error) (TodoResponse, error) {
	if err != nil {
		if fault := apperror.ToFault(err); fault != nil {
			return TodoResponse{Fault: fault}, nil
		}
		return TodoResponse{}, err
	}
	return TodoResponse{Todo: todo}, nil
}
