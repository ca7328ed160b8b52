package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestIDHeader is the header and fiber local the request id travels in.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionIDKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// WithSessionID tags ctx with the assistant session it works on.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID returns "" when ctx carries no session.
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return sessionID
}

// FromFiberCtx returns the request's user context carrying its request id.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return ctx
	}

	requestID, ok := c.Locals(RequestIDHeader).(string)
	if !ok || requestID == "" {
		requestID = c.Get(RequestIDHeader)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(ctx, requestID)
}

// Detached carries the request and session ids of ctx into a context that
// outlives it.
func Detached(ctx context.Context) context.Context {
	detached := WithRequestID(context.Background(), GetRequestID(ctx))
	if sessionID := GetSessionID(ctx); sessionID != "" {
		detached = WithSessionID(detached, sessionID)
	}
	return detached
}
