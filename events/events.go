package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TodoCreatedEvent is emitted when a new task is created.
type TodoCreatedEvent struct {
	TodoID    string    `json:"todo_id"`
	Text      string    `json:"text"`
	OwnerID   string    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoCreatedV1 is the typed event definition for task creation.
// Subject: events.todo.v1.todo-created
var TodoCreatedV1 = helper.EventDefinition[TodoCreatedEvent](
	"todo", "TodoCreated", "v1",
)

// TodoCompletedEvent is emitted when a task moves to completed.
type TodoCompletedEvent struct {
	TodoID      string `json:"todo_id"`
	OwnerID     string `json:"owner_id,omitempty"`
	CompletedAt int64  `json:"completed_at"`
}

// TodoCompletedV1 is the typed event definition for task completion.
// Subject: events.todo.v1.todo-completed
var TodoCompletedV1 = helper.EventDefinition[TodoCompletedEvent](
	"todo", "TodoCompleted", "v1",
)

// TodoDeletedEvent is emitted when a task is deleted.
type TodoDeletedEvent struct {
	TodoID    string    `json:"todo_id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TodoDeletedV1 is the typed event definition for task deletion.
// Subject: events.todo.v1.todo-deleted
var TodoDeletedV1 = helper.EventDefinition[TodoDeletedEvent](
	"todo", "TodoDeleted", "v1",
)

// AccountRegisteredEvent is emitted when a new account signs up.
type AccountRegisteredEvent struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AccountRegisteredV1 is the typed event definition for account registration.
// Subject: events.account.v1.account-registered
var AccountRegisteredV1 = helper.EventDefinition[AccountRegisteredEvent](
	"account", "AccountRegistered", "v1",
)
