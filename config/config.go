// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment is the default application environment.
	EnvDevelopment = "development"
	// EnvProduction enables the strict checks in Validate.
	EnvProduction = "production"

	defaultJWTSecret = "dev-secret-change-me"
)

// Config holds the application settings.
type Config struct {
	// Application
	AppEnv string

	// HTTP server
	Port string

	// Store
	DatabaseURL  string
	DatabaseName string
	DBDebug      bool

	// Session tokens
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration // zero means tokens never expire

	// Task scoping
	TodosRequireAuth bool

	// Rate limiting for /users and /users/login
	RedisAddr       string // empty selects in-memory limiter storage
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// values that were set but could not be parsed
	parseErrs []error
}

// Load reads .env (if present) and the environment, then validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	env := &envReader{}
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", EnvDevelopment),

		Port: getEnv("PORT", "3000"),

		DatabaseURL:  getEnv("DATABASE_URL", "todo.db"),
		DatabaseName: getEnv("DATABASE_NAME", "TodoApp"),
		DBDebug:      env.boolean("DB_DEBUG", false),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "todo-api"),
		TokenTTL:  env.duration("TOKEN_TTL", 0),

		TodosRequireAuth: env.boolean("TODOS_REQUIRE_AUTH", false),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		LoginRateLimit:  env.integer("LOGIN_RATE_LIMIT", 20),
		LoginRateWindow: env.duration("LOGIN_RATE_WINDOW", time.Minute),
	}
	cfg.parseErrs = env.errs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}

	return cfg, nil
}

// loadEnvFile loads .env from the working directory, falling back to its parent.
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env"))
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return errors.Join(c.parseErrs...)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}
	if c.LoginRateWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be positive")
	}

	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// envReader parses typed variables and collects every malformed value.
type envReader struct {
	errs []error
}

func (r *envReader) integer(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer, got %q", key, valueStr))
		return defaultValue
	}
	return value
}

func (r *envReader) boolean(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a boolean, got %q", key, valueStr))
		return defaultValue
	}
	return value
}

func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a Go duration, got %q", key, valueStr))
		return defaultValue
	}
	return value
}
