package todo

import (
	"context"
	"errors"
	"os"
	"testing"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/todo"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMongoRepo connects to MONGO_TEST_URI and returns a repository on a
// throwaway database.
func setupMongoRepo(t *testing.T) *MongoRepository {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping MongoDB integration test")
	}

	ctx := context.Background()
	store, err := database.Open(ctx, uri, database.Options{DatabaseName: "TodoAppTest_" + uuid.NewString()[:8]})
	if err != nil {
		t.Skipf("MongoDB not available, skipping integration test: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Mongo().Drop(ctx)
		_ = store.Close(ctx)
	})

	repo := NewMongoRepository(store.Mongo())
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestMongoRepository_Lifecycle(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	owner := "owner-1"
	todo := &domain.Todo{Text: "First test todo", OwnerID: &owner}
	require.NoError(t, repo.Create(ctx, todo))
	require.NoError(t, repo.Create(ctx, &domain.Todo{Text: "Second test todo"}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owned, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, todo.ID, owned[0].ID)

	completedAt := int64(333)
	todo.Completed = true
	todo.CompletedAt = &completedAt
	require.NoError(t, repo.Update(ctx, todo))

	found, err := repo.FindByID(ctx, todo.ID, owner)
	require.NoError(t, err)
	assert.True(t, found.Completed)
	require.NotNil(t, found.CompletedAt)
	assert.Equal(t, int64(333), *found.CompletedAt)

	_, err = repo.FindByID(ctx, todo.ID, "someone-else")
	assert.True(t, errors.Is(err, ErrTodoNotFound))

	deleted, err := repo.Delete(ctx, todo.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "First test todo", deleted.Text)

	_, err = repo.Delete(ctx, todo.ID, "")
	assert.True(t, errors.Is(err, ErrTodoNotFound))
}
