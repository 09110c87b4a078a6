package account

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	"github.com/bkluczynski-zz/node-todo-app/events"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module provides account registration and token authentication.
type Module struct {
	db          *database.PluginModule
	service     *Service
	eventBus    mono.EventBus
	tokenConfig TokenConfig
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new account Module.
func NewModule(tokenConfig TokenConfig) *Module {
	return &Module{
		tokenConfig: tokenConfig,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "account"
}

// SetPlugin receives the database plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != database.PluginAlias {
		return
	}
	if dbPlugin, ok := plugin.(*database.PluginModule); ok {
		m.db = dbPlugin
		log.Println("[account] Database plugin injected")
	}
}

// SetEventBus receives the event bus used to publish account events.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events published by this module.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.AccountRegisteredV1.ToBase(),
	}
}

// Start builds the repository for the injected store and runs migrations.
func (m *Module) Start(ctx context.Context) error {
	if m.db == nil || m.db.Store() == nil {
		return fmt.Errorf("database plugin not set - ensure '%s' plugin is registered", database.PluginAlias)
	}

	repo, err := NewRepository(m.db.Store())
	if err != nil {
		return err
	}
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate accounts: %w", err)
	}

	tokens, err := NewTokenManager(m.tokenConfig)
	if err != nil {
		return err
	}

	m.service = NewService(repo, NewPasswordHasher(), tokens, m.eventBus)

	log.Printf("[account] Module started (store: %s, token ttl: %s)", m.db.Store().Driver(), m.tokenConfig.TTL)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[account] Module stopped")
	return nil
}

// Health reports whether the module is ready to serve.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"token_expiry": m.tokenConfig.TTL > 0,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"register",
		json.Unmarshal,
		json.Marshal,
		m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"authenticate",
		json.Unmarshal,
		json.Marshal,
		m.handleAuthenticate,
	); err != nil {
		return fmt.Errorf("failed to register authenticate service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"logout",
		json.Unmarshal,
		json.Marshal,
		m.handleLogout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	log.Printf("[account] Registered services: register, login, authenticate, logout")
	return nil
}

func (m *Module) handleRegister(ctx context.Context, req CredentialsRequest, _ *mono.Msg) (SessionResponse, error) {
	return sessionReply(m.service.Register(ctx, req.Email, req.Password))
}

func (m *Module) handleLogin(ctx context.Context, req CredentialsRequest, _ *mono.Msg) (SessionResponse, error) {
	return sessionReply(m.service.Login(ctx, req.Email, req.Password))
}

// handleAuthenticate returns authentication failures in the response, not as errors.
func (m *Module) handleAuthenticate(ctx context.Context, req AuthenticateRequest, _ *mono.Msg) (AccountResponse, error) {
	account, err := m.service.Authenticate(ctx, req.Token)
	if err != nil {
		if fault := apperror.ToFault(err); fault != nil {
			return AccountResponse{Fault: fault}, nil
		}
		return AccountResponse{}, err
	}
	return AccountResponse{ID: account.ID, Email: account.Email}, nil
}

func (m *Module) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.AccountID, req.Token); err != nil {
		if fault := apperror.ToFault(err); fault != nil {
			return LogoutResponse{Fault: fault}, nil
		}
		return LogoutResponse{}, err
	}
	return LogoutResponse{}, nil
}

func sessionReply(session *Session, err error) (SessionResponse, error) {
	if err != nil {
		if fault := apperror.ToFault(err); fault != nil {
			return SessionResponse{Fault: fault}, nil
		}
		return SessionResponse{}, err
	}
	return SessionResponse{
		ID:    session.Account.ID,
		Email: session.Account.Email,
		Token: session.Token,
	}, nil
}
