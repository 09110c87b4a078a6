package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bkluczynski-zz/node-todo-app/modules/account"
	"github.com/bkluczynski-zz/node-todo-app/modules/activity"
	"github.com/bkluczynski-zz/node-todo-app/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config configures the HTTP API.
type Config struct {
	Addr string
	// TodosRequireAuth mounts /todos behind the auth middleware and scopes
	// every task operation to the caller.
	TodosRequireAuth bool
	RateLimit        int
	RateWindow       time.Duration
	// RedisAddr selects Redis-backed limiter storage when non-empty.
	RedisAddr string
}

// APIModule is the HTTP API module.
type APIModule struct {
	cfg             Config
	app             *fiber.App
	todoAdapter     todo.TodoPort
	accountAdapter  account.AccountPort
	activityAdapter activity.ActivityPort
	limiterStorage  fiber.Storage
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg Config) *APIModule {
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"todo", "account", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "todo":
		m.todoAdapter = todo.NewTodoAdapter(container)
	case "account":
		m.accountAdapter = account.NewAccountAdapter(container)
	case "activity":
		m.activityAdapter = activity.NewActivityAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.todoAdapter == nil {
		return fmt.Errorf("todo dependency not set")
	}
	if m.accountAdapter == nil {
		return fmt.Errorf("account dependency not set")
	}
	if m.activityAdapter == nil {
		return fmt.Errorf("activity dependency not set")
	}

	if m.cfg.RedisAddr != "" {
		storage, err := newRedisStorage(m.cfg.RedisAddr)
		if err != nil {
			return err
		}
		m.limiterStorage = storage
		log.Printf("[api] Rate limiter using Redis at %s", m.cfg.RedisAddr)
	}

	m.app = NewApp(m.todoAdapter, m.accountAdapter, m.activityAdapter, m.cfg, m.limiterStorage)

	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.cfg.Addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	err := m.app.Shutdown()
	if m.limiterStorage != nil {
		if cerr := m.limiterStorage.Close(); cerr != nil {
			log.Printf("[api] Error closing limiter storage: %v", cerr)
		}
	}
	return err
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr":               m.cfg.Addr,
			"todos_require_auth": m.cfg.TodosRequireAuth,
			"redis_rate_limiter": m.limiterStorage != nil,
		},
	}
}

// NewApp builds the Fiber application with middleware and routes.
func NewApp(todos todo.TodoPort, accounts account.AccountPort, feed activity.ActivityPort, cfg Config, limiterStorage fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		ExposeHeaders: AuthHeader,
	}))

	setupRoutes(app, NewHandlers(todos, accounts, feed, cfg.TodosRequireAuth), accounts, cfg, limiterStorage)
	return app
}

// setupRoutes configures all API routes.
func setupRoutes(app *fiber.App, handlers *Handlers, accounts account.AccountPort, cfg Config, limiterStorage fiber.Storage) {
	requireAuth := AuthMiddleware(accounts)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	todos := app.Group("/todos")
	if cfg.TodosRequireAuth {
		todos.Use(requireAuth)
	}
	todos.Post("/", handlers.CreateTodo)
	todos.Get("/", handlers.ListTodos)
	todos.Get("/:id", handlers.GetTodo)
	todos.Delete("/:id", handlers.DeleteTodo)
	todos.Patch("/:id", handlers.PatchTodo)

	if cfg.TodosRequireAuth {
		app.Get("/activity", requireAuth, handlers.ListActivity)
	} else {
		app.Get("/activity", handlers.ListActivity)
	}

	authLimiter := AuthRateLimiter(cfg.RateLimit, cfg.RateWindow, limiterStorage)

	users := app.Group("/users")
	users.Post("/", authLimiter, handlers.Register)
	users.Post("/login", authLimiter, handlers.Login)
	users.Get("/me", requireAuth, handlers.Me)
	users.Delete("/me/token", requireAuth, handlers.Logout)
}
