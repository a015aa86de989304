// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"schedpay/internal/logging"
)

// RequestLogger writes one access log entry per request. It must run after
// requestid so the entry carries the request id. Errors returned by later
// handlers are rendered here through the app's ErrorHandler so the logged
// status is the one the client sees.
func RequestLogger(log *zap.Logger) fiber.Handler {
	log = logging.OrNop(log).Named("http")

	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		log.Check(level, "request").Write(
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return nil
	}
}
