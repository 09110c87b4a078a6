package account

import (
	"context"
	"errors"
	"os"
	"testing"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoRepository_TokenLifecycle(t *testing.T) {
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

	account := &domain.Account{
		Email:        "bart@gmail.com",
		PasswordHash: "hash",
		Tokens:       []domain.Token{{Access: domain.AccessAuth, Token: "first"}},
	}
	require.NoError(t, repo.Create(ctx, account))

	err = repo.Create(ctx, &domain.Account{Email: "bart@gmail.com", PasswordHash: "hash"})
	assert.True(t, errors.Is(err, ErrEmailTaken))

	exists, err := repo.EmailExists(ctx, "bart@gmail.com")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.AddToken(ctx, account.ID, domain.Token{Access: domain.AccessAuth, Token: "second"}))

	found, err := repo.FindByToken(ctx, account.ID, domain.AccessAuth, "second")
	require.NoError(t, err)
	require.Len(t, found.Tokens, 2)
	assert.Equal(t, "second", found.Tokens[1].Token)

	require.NoError(t, repo.RemoveToken(ctx, account.ID, "first"))
	_, err = repo.FindByToken(ctx, account.ID, domain.AccessAuth, "first")
	assert.True(t, errors.Is(err, ErrAccountNotFound))

	_, err = repo.FindByEmail(ctx, "nobody@gmail.com")
	assert.True(t, errors.Is(err, ErrAccountNotFound))
}
