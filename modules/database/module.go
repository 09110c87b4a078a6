package database

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// PluginAlias is the alias under which the plugin is registered and injected.
const PluginAlias = "database"

// PluginModule owns the store connection. Plugins start before and stop after
// regular modules, so the store outlives every module that uses it.
type PluginModule struct {
	container types.ServiceContainer
	store     *Store
	uri       string
	opts      Options
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a database plugin for the given connection URI.
func NewPluginModule(uri string, opts Options) *PluginModule {
	return &PluginModule{
		uri:  uri,
		opts: opts,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return PluginAlias
}

// Start opens the store connection.
func (m *PluginModule) Start(ctx context.Context) error {
	store, err := Open(ctx, m.uri, m.opts)
	if err != nil {
		return err
	}
	m.store = store
	log.Printf("[database] Connected to %s store at %s", store.Driver(), store.Target())
	return nil
}

// Stop closes the store connection.
func (m *PluginModule) Stop(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Close(ctx); err != nil {
		log.Printf("[database] Error closing connection: %v", err)
		return fmt.Errorf("failed to close connection: %w", err)
	}
	log.Println("[database] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Store returns the open store. It is nil before Start.
func (m *PluginModule) Store() *Store {
	return m.store
}

// Health pings the store.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not connected",
		}
	}
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": string(m.store.Driver()),
			"target": m.store.Target(),
		},
	}
}
