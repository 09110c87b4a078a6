package todo

import (
	"context"
	"errors"
	"testing"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/google/uuid"
)

// setupTestRepo creates a GORM repository on an in-memory SQLite database.
func setupTestRepo(t *testing.T) *GormRepository {
	t.Helper()

	store, err := database.Open(context.Background(), ":memory:", database.Options{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	repo := NewGormRepository(store.Gorm())
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repo
}

func TestGormRepository_CreateAssignsID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	todo := &domain.Todo{Text: "First test todo"}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := uuid.Parse(todo.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", todo.ID)
	}

	found, err := repo.FindByID(ctx, todo.ID, "")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Text != "First test todo" {
		t.Errorf("expected text %q, got %q", "First test todo", found.Text)
	}
	if found.Completed || found.CompletedAt != nil {
		t.Errorf("expected open todo, got completed=%v completedAt=%v", found.Completed, found.CompletedAt)
	}
}

func TestGormRepository_ListScopesByOwner(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	alice, bob := "alice", "bob"
	for _, todo := range []*domain.Todo{
		{Text: "one", OwnerID: &alice},
		{Text: "two", OwnerID: &bob},
		{Text: "three"},
	} {
		if err := repo.Create(ctx, todo); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 todos, got %d", len(all))
	}

	owned, err := repo.List(ctx, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(owned) != 1 || owned[0].Text != "one" {
		t.Errorf("expected only alice's todo, got %+v", owned)
	}

	if _, err := repo.FindByID(ctx, owned[0].ID, bob); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound for foreign owner, got %v", err)
	}
}

func TestGormRepository_ListEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	todos, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", todos)
	}
}

func TestGormRepository_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	todo := &domain.Todo{Text: "Second test todo"}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	completedAt := int64(333)
	todo.Completed = true
	todo.CompletedAt = &completedAt
	if err := repo.Update(ctx, todo); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.FindByID(ctx, todo.ID, "")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !found.Completed || found.CompletedAt == nil || *found.CompletedAt != 333 {
		t.Errorf("expected completed at 333, got completed=%v completedAt=%v", found.Completed, found.CompletedAt)
	}

	// Clearing completion must persist the zero values.
	todo.Completed = false
	todo.CompletedAt = nil
	if err := repo.Update(ctx, todo); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	found, _ = repo.FindByID(ctx, todo.ID, "")
	if found.Completed || found.CompletedAt != nil {
		t.Errorf("expected cleared completion, got completed=%v completedAt=%v", found.Completed, found.CompletedAt)
	}

	missing := &domain.Todo{ID: uuid.New().String(), Text: "ghost"}
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestGormRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	todo := &domain.Todo{Text: "delete me"}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := repo.Delete(ctx, todo.ID, "")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != todo.ID || deleted.Text != "delete me" {
		t.Errorf("expected prior state, got %+v", deleted)
	}

	if _, err := repo.FindByID(ctx, todo.ID, ""); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound after delete, got %v", err)
	}
	if _, err := repo.Delete(ctx, todo.ID, ""); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}
