package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

// RequestID returns the id assigned by StructuredLogger, or "" outside of it
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestID").(string)
	return id
}

// requestIDFrom keeps a well-formed id set by a proxy in front of the app
func requestIDFrom(c *fiber.Ctx) string {
	if incoming := c.Get(HeaderRequestID); incoming != "" {
		if id, err := uuid.Parse(incoming); err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}

// quietPath reports requests that only log at debug level when they succeed
func quietPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/static/")
}

func StructuredLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := requestIDFrom(c)

		c.Locals("requestID", requestID)
		c.Set(HeaderRequestID, requestID)

		err := c.Next()

		status := c.Response().StatusCode()

		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}

		if userID, ok := c.Locals("userID").(string); ok && userID != "" {
			attrs = append(attrs, slog.String("user_id", userID))
		}
		if id := c.Params("id"); id != "" {
			attrs = append(attrs, slog.String("resource_id", id))
		}

		level := slog.LevelInfo
		msg := "request completed"
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level, msg = slog.LevelError, "request error"
		case status >= 500:
			level, msg = slog.LevelError, "server error"
		case status >= 400:
			level, msg = slog.LevelWarn, "client error"
		case quietPath(c.Path()):
			level = slog.LevelDebug
		}

		logger.LogAttrs(c.UserContext(), level, msg, attrs...)
		return err
	}
}
