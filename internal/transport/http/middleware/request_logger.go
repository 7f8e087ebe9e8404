// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"
)

// RequestLogger logs HTTP requests with method, path, status and duration.
// Webhook deliveries also carry the GitHub event name and delivery id.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		dur := time.Since(start)
		reqID, _ := c.Locals("requestid").(string)
		if reqID == "" {
			reqID = c.Get(fiber.HeaderXRequestID)
		}

		fields := []interface{}{
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration_ms", float64(dur.Microseconds()) / 1000.0,
			"request_id", reqID,
		}
		if event := c.Get(github.EventTypeHeader); event != "" {
			fields = append(fields, "github_event", event, "github_delivery", c.Get(github.DeliveryIDHeader))
		}
		if err != nil {
			fields = append(fields, "error", err)
			log.Errorw("http", fields...)
			return err
		}
		log.Infow("http", fields...)
		return nil
	}
}
