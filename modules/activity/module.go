package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bkluczynski-zz/node-todo-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// DefaultCapacity is the number of entries kept in the feed.
const DefaultCapacity = 100

// DefaultLimit is the number of entries returned when a request sets no limit.
const DefaultLimit = 20

// Entry is a single lifecycle event recorded in the feed.
type Entry struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Module consumes todo and account events and keeps a bounded recent feed.
type Module struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ ActivityPort               = (*Module)(nil)
)

func NewModule(capacity int) *Module {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Module{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

func (m *Module) Name() string {
	return "activity"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoCreatedV1, m.handleTodoCreated, m); err != nil {
		return fmt.Errorf("failed to register TodoCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoCompletedV1, m.handleTodoCompleted, m); err != nil {
		return fmt.Errorf("failed to register TodoCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoDeletedV1, m.handleTodoDeleted, m); err != nil {
		return fmt.Errorf("failed to register TodoDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.AccountRegisteredV1, m.handleAccountRegistered, m); err != nil {
		return fmt.Errorf("failed to register AccountRegistered consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TodoCreated, TodoCompleted, TodoDeleted, AccountRegistered")
	return nil
}

func (m *Module) handleTodoCreated(_ context.Context, event events.TodoCreatedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Todo created: %s - %s", event.TodoID, event.Text)
	m.record("todo_created", event.TodoID, event.OwnerID, fmt.Sprintf("Todo '%s' created", event.Text))
	return nil
}

func (m *Module) handleTodoCompleted(_ context.Context, event events.TodoCompletedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Todo completed: %s", event.TodoID)
	m.record("todo_completed", event.TodoID, event.OwnerID, fmt.Sprintf("Todo %s completed", event.TodoID))
	return nil
}

func (m *Module) handleTodoDeleted(_ context.Context, event events.TodoDeletedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Todo deleted: %s", event.TodoID)
	m.record("todo_deleted", event.TodoID, event.OwnerID, fmt.Sprintf("Todo %s deleted", event.TodoID))
	return nil
}

func (m *Module) handleAccountRegistered(_ context.Context, event events.AccountRegisteredEvent, _ *mono.Msg) error {
	log.Printf("[activity] Account registered: %s", event.AccountID)
	m.record("account_registered", event.AccountID, event.AccountID, fmt.Sprintf("Account %s registered", event.Email))
	return nil
}

func (m *Module) record(entryType, subjectID, ownerID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, Entry{
		Type:      entryType,
		SubjectID: subjectID,
		OwnerID:   ownerID,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Recent returns up to limit entries visible to ownerID, newest first. An
// empty ownerID matches every entry and a non-positive limit returns all.
func (m *Module) Recent(ownerID string, limit int) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		if ownerID != "" && m.entries[i].OwnerID != ownerID {
			continue
		}
		result = append(result, m.entries[i])
	}
	return result
}

// RecentActivity serves the feed in-process.
func (m *Module) RecentActivity(_ context.Context, ownerID string, limit int) ([]Entry, error) {
	return m.Recent(ownerID, clampLimit(limit)), nil
}

// RegisterServices registers the recent-activity request-reply service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"recent-activity",
		json.Unmarshal,
		json.Marshal,
		m.handleRecent,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	log.Printf("[activity] Registered services: recent-activity")
	return nil
}

func (m *Module) handleRecent(ctx context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	entries, err := m.RecentActivity(ctx, req.OwnerID, req.Limit)
	if err != nil {
		return RecentActivityResponse{}, err
	}
	return RecentActivityResponse{Entries: entries}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > DefaultCapacity {
		return DefaultCapacity
	}
	return limit
}

func (m *Module) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for todo and account events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}
