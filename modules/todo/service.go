package todo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/bkluczynski-zz/node-todo-app/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// Service implements the task operations on top of a Repository.
type Service struct {
	repo     Repository
	eventBus mono.EventBus
	now      func() time.Time
}

var _ TodoPort = (*Service)(nil)

// NewService creates a new Service. eventBus may be nil, in which case no
// events are published.
func NewService(repo Repository, eventBus mono.EventBus) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// CreateTodo validates text and stores a new open task.
func (s *Service) CreateTodo(ctx context.Context, ownerID, text string) (*domain.Todo, error) {
	text = domain.NormalizeText(text)
	if text == "" {
		return nil, errTextRequired()
	}

	todo := &domain.Todo{Text: text}
	if ownerID != "" {
		todo.OwnerID = &ownerID
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to save todo: %w", err)
	}

	if s.eventBus != nil {
		event := events.TodoCreatedEvent{
			TodoID:    todo.ID,
			Text:      todo.Text,
			OwnerID:   ownerID,
			CreatedAt: s.now(),
		}
		if err := events.TodoCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[todo] Warning: failed to publish TodoCreated event for todo %s: %v", todo.ID, err)
		}
	}

	return todo, nil
}

// ListTodos returns every task visible to ownerID.
func (s *Service) ListTodos(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	todos, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// GetTodo returns a task by id.
func (s *Service) GetTodo(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	if !ValidID(id) {
		return nil, errNotFound()
	}

	todo, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get todo")
	}
	return todo, nil
}

// DeleteTodo removes a task and returns its prior state.
func (s *Service) DeleteTodo(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	if !ValidID(id) {
		return nil, errNotFound()
	}

	todo, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to delete todo")
	}

	if s.eventBus != nil {
		event := events.TodoDeletedEvent{
			TodoID:    todo.ID,
			OwnerID:   todo.Owner(),
			DeletedAt: s.now(),
		}
		if err := events.TodoDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[todo] Warning: failed to publish TodoDeleted event for todo %s: %v", todo.ID, err)
		}
	}

	return todo, nil
}

// PatchTodo applies a partial update and returns the updated task.
func (s *Service) PatchTodo(ctx context.Context, id, ownerID string, patch domain.Patch) (*domain.Todo, error) {
	if !ValidID(id) {
		return nil, errNotFound()
	}
	if patch.Text != nil && domain.NormalizeText(*patch.Text) == "" {
		return nil, errTextRequired()
	}

	todo, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get todo")
	}

	completed := todo.Apply(patch, s.now())

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, s.mapRepoError(err, "failed to update todo")
	}

	if completed && s.eventBus != nil {
		event := events.TodoCompletedEvent{
			TodoID:      todo.ID,
			OwnerID:     todo.Owner(),
			CompletedAt: *todo.CompletedAt,
		}
		if err := events.TodoCompletedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[todo] Warning: failed to publish TodoCompleted event for todo %s: %v", todo.ID, err)
		}
	}

	return todo, nil
}

func (s *Service) mapRepoError(err error, msg string) error {
	if errors.Is(err, ErrTodoNotFound) {
		return errNotFound()
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidID reports whether id has the shape of a task id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func errNotFound() error {
	return apperror.NotFound(ErrTodoNotFound.Error())
}

func errTextRequired() error {
	return apperror.Validation("todo validation failed", map[string]string{
		"text": "text is required",
	})
}
