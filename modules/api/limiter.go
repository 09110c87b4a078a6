package api

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis/v3"
)

// AuthRateLimiter limits register and login attempts per client IP. A nil
// storage keeps counters in memory.
func AuthRateLimiter(limit int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "auth-limit:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "too_many_requests",
				Message: "Too many authentication attempts, try again later",
			})
		},
	})
}

// newRedisStorage connects limiter storage to Redis at addr (host:port).
// redis.New panics when the server is unreachable; that is returned as an error.
func newRedisStorage(addr string) (storage *redis.Storage, err error) {
	host, port, err := parseRedisAddr(addr)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			storage = nil
			err = fmt.Errorf("failed to connect to redis at %s: %v", addr, r)
		}
	}()

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 10,
	}), nil
}

func parseRedisAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid redis address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid redis port %q: %w", portStr, err)
	}
	if host == "" {
		host = "localhost"
	}
	return host, port, nil
}
