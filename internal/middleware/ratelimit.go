package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// WriteLimiter caps mutating requests per client IP. Reads pass through.
func WriteLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			switch c.Method() {
			case fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodPatch:
				return false
			}
			return true
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
