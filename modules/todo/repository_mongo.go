package todo

import (
	"context"
	"errors"
	"time"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const todosCollection = "todos"

// MongoRepository stores tasks as documents in MongoDB.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewMongoRepository creates a new MongoRepository on the todos collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(todosCollection)}
}

// Migrate ensures the owner index exists.
func (r *MongoRepository) Migrate(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	return err
}

// Create inserts a task, assigning an id when none is set.
func (r *MongoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := time.Now()
	todo.CreatedAt, todo.UpdatedAt = now, now

	_, err := r.coll.InsertOne(ctx, todo)
	return err
}

// List returns tasks in natural (insertion) order.
func (r *MongoRepository) List(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	cursor, err := r.coll.Find(ctx, ownerFilter(bson.D{}, ownerID))
	if err != nil {
		return nil, err
	}

	todos := make([]*domain.Todo, 0)
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// FindByID returns a single task.
func (r *MongoRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.coll.FindOne(ctx, ownerFilter(bson.D{{Key: "_id", Value: id}}, ownerID)).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Update writes the mutable fields of todo.
func (r *MongoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	todo.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx,
		ownerFilter(bson.D{{Key: "_id", Value: todo.ID}}, todo.Owner()),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "text", Value: todo.Text},
			{Key: "completed", Value: todo.Completed},
			{Key: "completedAt", Value: todo.CompletedAt},
			{Key: "updatedAt", Value: todo.UpdatedAt},
		}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Delete removes a task and returns its state prior to removal.
func (r *MongoRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	var deleted domain.Todo
	err := r.coll.FindOneAndDelete(ctx, ownerFilter(bson.D{{Key: "_id", Value: id}}, ownerID)).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &deleted, nil
}

func ownerFilter(filter bson.D, ownerID string) bson.D {
	if ownerID == "" {
		return filter
	}
	return append(filter, bson.E{Key: "owner", Value: ownerID})
}
