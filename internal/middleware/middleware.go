package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"LundyVoice/pkg/utils"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	loggingMiddleware   fiber.Handler
	log                 *logrus.Logger
	ids                 utils.IUtils
	now                 func() time.Time
	reqRate             rate.Limit
	burstSize           int
}

type Option func(*middleware)

// WithRateLimit overrides the per-IP request rate and burst.
func WithRateLimit(reqRate rate.Limit, burstSize int) Option {
	return func(m *middleware) {
		m.reqRate = reqRate
		m.burstSize = burstSize
	}
}

// WithIDGenerator sets the generator for request ids.
func WithIDGenerator(ids utils.IUtils) Option {
	return func(m *middleware) {
		m.ids = ids
	}
}

func New(logger *logrus.Logger, opts ...Option) Middleware {
	m := &middleware{
		log:       logger,
		ids:       utils.New(),
		now:       time.Now,
		reqRate:   50,
		burstSize: 100,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.rateLimitter = newRateLimiter(m.reqRate, m.burstSize, m.now)
	m.requestIDMiddleware = newRequestIDMiddleware(m.ids, m.now)
	m.loggingMiddleware = newLoggingMiddleware(logger)
	return m
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return m.loggingMiddleware
}
