package assistantHandler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	assistantService "LundyVoice/internal/api/assistant/service"
	"LundyVoice/internal/middleware"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
	wsReadTimeout    time.Duration
	wsPingInterval   time.Duration
}

type Option func(*AssistantHandler)

// WithVoiceChannelTimeouts sets how long a voice channel may stay silent and
// how often the server pings it. ping must be shorter than read.
func WithVoiceChannelTimeouts(read, ping time.Duration) Option {
	return func(h *AssistantHandler) {
		if read > 0 && ping > 0 && ping < read {
			h.wsReadTimeout = read
			h.wsPingInterval = ping
		}
	}
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
	opts ...Option,
) *AssistantHandler {
	h := &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
		wsReadTimeout:    defaultWSReadTimeout,
		wsPingInterval:   defaultWSReadTimeout * 9 / 10,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	assistant := srv.Group("/assistant")

	assistant.Use("/ws", wsMiddleware)
	assistant.Get("/ws", websocket.New(h.handleVoiceChannel))

	assistant.Use(h.middleware.NewRateLimiter)

	assistant.Post("/command", h.ProcessCommand)
	assistant.Post("/voice", h.ProcessVoice)
	assistant.Post("/speech", h.Synthesize)

	booking := assistant.Group("/booking")
	booking.Post("/confirm", h.ConfirmBooking)
	booking.Post("/cancel", h.CancelBooking)

	sessions := assistant.Group("/sessions/:session_id")
	sessions.Get("/history", h.GetHistory)
	sessions.Get("/booking", h.GetLatestBooking)

	assistant.Post("/pages/content", h.UpdatePageContent)

	compliance := assistant.Group("/compliance")
	compliance.Get("/report", h.GetComplianceReport)
	compliance.Post("/report/archive", h.ArchiveComplianceReport)

	assistant.Get("/onboarding/:client_id", h.GetOnboarding)
	assistant.Put("/onboarding/:client_id", h.SetOnboarding)

	// admin only
	assistant.Get("/bookings", h.middleware.NewTokenMiddleware, h.ListBookings)
}
