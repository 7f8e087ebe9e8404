package middleware

import (
	"net/http"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders() fiber.Handler {
	return helmet.New()
}

// RateLimiter allows limit requests per client IP in each window.
// Health checks and webhook deliveries are not counted. A non-positive limit disables limiting.
func RateLimiter(log *zap.SugaredLogger, limit int, window time.Duration) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	log = log.Named("ratelimit")
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/api/webhook"
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warnw("rate limit reached", "ip", c.IP(), "path", c.Path())
			var resp api.ErrorResponse
			resp.Error.Code = api.RATELIMITED
			resp.Error.Message = "too many requests, retry later"
			return c.Status(http.StatusTooManyRequests).JSON(resp)
		},
	})
}
