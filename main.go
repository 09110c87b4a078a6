package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bkluczynski-zz/node-todo-app/config"
	"github.com/bkluczynski-zz/node-todo-app/modules/account"
	"github.com/bkluczynski-zz/node-todo-app/modules/activity"
	"github.com/bkluczynski-zz/node-todo-app/modules/api"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/bkluczynski-zz/node-todo-app/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Todo API ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Plugins start before and stop after regular modules.
	dbPlugin := database.NewPluginModule(cfg.DatabaseURL, database.Options{
		DatabaseName: cfg.DatabaseName,
		Debug:        cfg.DBDebug,
	})
	if err := app.RegisterPlugin(dbPlugin, database.PluginAlias); err != nil {
		log.Fatalf("Failed to register database plugin: %v", err)
	}

	modules := []mono.Module{
		account.NewModule(account.TokenConfig{
			Secret: cfg.JWTSecret,
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.TokenTTL,
		}),
		todo.NewModule(),
		activity.NewModule(activity.DefaultCapacity),
		api.NewModule(api.Config{
			Addr:             cfg.ListenAddr(),
			TodosRequireAuth: cfg.TodosRequireAuth,
			RateLimit:        cfg.LoginRateLimit,
			RateWindow:       cfg.LoginRateWindow,
			RedisAddr:        cfg.RedisAddr,
		}),
	}
	for _, module := range modules {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  Environment: %s", cfg.AppEnv)
	log.Printf("  Todos require auth: %v", cfg.TodosRequireAuth)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", cfg.ListenAddr())
	log.Println("  POST   /todos             - Create a todo")
	log.Println("  GET    /todos             - List todos")
	log.Println("  GET    /todos/:id         - Get a todo")
	log.Println("  PATCH  /todos/:id         - Update text/completion")
	log.Println("  DELETE /todos/:id         - Delete a todo")
	log.Println("  POST   /users             - Register (token in x-auth header)")
	log.Println("  POST   /users/login       - Log in (token in x-auth header)")
	log.Println("  GET    /users/me          - Current user (requires x-auth)")
	log.Println("  DELETE /users/me/token    - Log out (requires x-auth)")
	log.Println("  GET    /activity          - Recent activity feed")
	log.Println("  GET    /health            - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
