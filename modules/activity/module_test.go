package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bkluczynski-zz/node-todo-app/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_RecordsEvents(t *testing.T) {
	m := NewModule(0)
	ctx := context.Background()

	require.NoError(t, m.handleTodoCreated(ctx, events.TodoCreatedEvent{TodoID: "t1", Text: "First test todo", CreatedAt: time.Now()}, nil))
	require.NoError(t, m.handleTodoCompleted(ctx, events.TodoCompletedEvent{TodoID: "t1", CompletedAt: 333}, nil))
	require.NoError(t, m.handleTodoDeleted(ctx, events.TodoDeletedEvent{TodoID: "t1", DeletedAt: time.Now()}, nil))
	require.NoError(t, m.handleAccountRegistered(ctx, events.AccountRegisteredEvent{AccountID: "a1", Email: "bart@gmail.com"}, nil))

	entries := m.Recent("", 0)
	require.Len(t, entries, 4)

	types := make([]string, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{"account_registered", "todo_deleted", "todo_completed", "todo_created"}, types)
	assert.Equal(t, "a1", entries[0].SubjectID)
	assert.Equal(t, "a1", entries[0].OwnerID)
	assert.Contains(t, entries[3].Message, "First test todo")
}

func TestModule_FeedIsBounded(t *testing.T) {
	m := NewModule(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.handleTodoCreated(ctx, events.TodoCreatedEvent{TodoID: fmt.Sprintf("t%d", i)}, nil))
	}

	entries := m.Recent("", 0)
	require.Len(t, entries, 3)
	assert.Equal(t, "t4", entries[0].SubjectID)
	assert.Equal(t, "t2", entries[2].SubjectID)
}

func TestModule_RecentFiltersByOwnerAndLimit(t *testing.T) {
	m := NewModule(0)
	ctx := context.Background()

	require.NoError(t, m.handleTodoCreated(ctx, events.TodoCreatedEvent{TodoID: "t1", OwnerID: "bart"}, nil))
	require.NoError(t, m.handleTodoCreated(ctx, events.TodoCreatedEvent{TodoID: "t2", OwnerID: "martin"}, nil))
	require.NoError(t, m.handleTodoCompleted(ctx, events.TodoCompletedEvent{TodoID: "t1", OwnerID: "bart", CompletedAt: 333}, nil))
	require.NoError(t, m.handleTodoCreated(ctx, events.TodoCreatedEvent{TodoID: "t3"}, nil))

	tests := []struct {
		name    string
		ownerID string
		limit   int
		want    []string
	}{
		{name: "all entries", want: []string{"t3", "t1", "t2", "t1"}},
		{name: "limited", limit: 2, want: []string{"t3", "t1"}},
		{name: "owner only", ownerID: "bart", want: []string{"t1", "t1"}},
		{name: "owner and limit", ownerID: "martin", limit: 5, want: []string{"t2"}},
		{name: "unknown owner", ownerID: "nobody", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, 0)
			for _, e := range m.Recent(tt.ownerID, tt.limit) {
				ids = append(ids, e.SubjectID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestModule_RecentReturnsCopy(t *testing.T) {
	m := NewModule(2)
	require.NoError(t, m.handleTodoDeleted(context.Background(), events.TodoDeletedEvent{TodoID: "t1"}, nil))

	entries := m.Recent("", 0)
	entries[0].SubjectID = "changed"

	assert.Equal(t, "t1", m.Recent("", 0)[0].SubjectID)
	assert.Equal(t, DefaultCapacity, NewModule(-1).capacity)
}

func TestModule_HandleRecentClampsLimit(t *testing.T) {
	m := NewModule(0)
	ctx := context.Background()
	for i := 0; i < DefaultCapacity+10; i++ {
		require.NoError(t, m.handleTodoCreated(ctx, events.TodoCreatedEvent{TodoID: fmt.Sprintf("t%d", i)}, nil))
	}

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: DefaultLimit},
		{limit: -3, want: DefaultLimit},
		{limit: 5, want: 5},
		{limit: DefaultCapacity * 2, want: DefaultCapacity},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.limit), func(t *testing.T) {
			resp, err := m.handleRecent(ctx, RecentActivityRequest{Limit: tt.limit}, nil)
			require.NoError(t, err)
			assert.Len(t, resp.Entries, tt.want)
		})
	}
}
