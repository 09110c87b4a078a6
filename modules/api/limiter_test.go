package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisAddr(t *testing.T) {
	tests := []struct {
		addr     string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{addr: "localhost:6379", wantHost: "localhost", wantPort: 6379},
		{addr: "redis.internal:6380", wantHost: "redis.internal", wantPort: 6380},
		{addr: ":6379", wantHost: "localhost", wantPort: 6379},
		{addr: "localhost", wantErr: true},
		{addr: "localhost:redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port, err := parseRedisAddr(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestAuthRateLimiter_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	storage, err := newRedisStorage(addr)
	if err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	// app.Test requests originate from 0.0.0.0.
	const key = "auth-limit:0.0.0.0"
	t.Cleanup(func() {
		_ = storage.Delete(key)
		_ = storage.Close()
	})
	require.NoError(t, storage.Delete(key))

	app := fiber.New()
	app.Post("/login", AuthRateLimiter(1, time.Minute, storage), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
