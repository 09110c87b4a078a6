package todo

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTodoNotFound is returned by repositories when no task matches.
var ErrTodoNotFound = errors.New("todo not found")

// Repository persists tasks. An empty ownerID matches every task.
type Repository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) error
	List(ctx context.Context, ownerID string) ([]*domain.Todo, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id, ownerID string) (*domain.Todo, error)
}

// NewRepository returns the repository matching the store backend.
func NewRepository(store *database.Store) (Repository, error) {
	switch store.Driver() {
	case database.DriverMongo:
		return NewMongoRepository(store.Mongo()), nil
	case database.DriverSQLite, database.DriverPostgres:
		return NewGormRepository(store.Gorm()), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", store.Driver())
	}
}

// GormRepository stores tasks in a relational database through GORM.
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the todos table.
func (r *GormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.Todo{})
}

// Create inserts a task, assigning an id when none is set.
func (r *GormRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(todo).Error
}

// List returns tasks in store order.
func (r *GormRepository) List(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	todos := make([]*domain.Todo, 0)
	if err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// FindByID returns a single task.
func (r *GormRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).First(&todo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Update writes the mutable fields of todo.
func (r *GormRepository) Update(ctx context.Context, todo *domain.Todo) error {
	todo.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(todo).
		Scopes(ownedBy(todo.Owner())).
		Select("Text", "Completed", "CompletedAt", "UpdatedAt").
		Updates(todo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Delete removes a task and returns its state prior to removal.
func (r *GormRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	var deleted domain.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(ownedBy(ownerID)).First(&deleted, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Todo{}, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &deleted, nil
}

func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == "" {
			return db
		}
		return db.Where("owner_id = ?", ownerID)
	}
}
