package middleware

import (
	"fleetdesk/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-ID"
	TraceIDLocalKey = "traceID"
)

// TraceID tags every request with a trace id so log lines from one fleet
// operation can be correlated across the handler, service and repository
// layers. A caller-supplied X-Trace-ID is honored, otherwise one is minted.
func (m *Middleware) TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		// Echo the id so callers can quote it when reporting a failure.
		c.Set(TraceIDHeader, traceID)
		c.Locals(TraceIDLocalKey, traceID)

		// Handlers pass c.UserContext() down, which carries the id into
		// every logger built with NewWithContext.
		c.SetUserContext(logger.ContextWithTraceID(c.Context(), traceID))

		return c.Next()
	}
}

// TraceIDFrom returns the request's trace id, empty when the middleware did
// not run.
func TraceIDFrom(c *fiber.Ctx) string {
	if traceID, ok := c.Locals(TraceIDLocalKey).(string); ok {
		return traceID
	}
	return ""
}
