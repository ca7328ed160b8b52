package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"LundyVoice/database/postgres"
	"LundyVoice/database/sqlite"
	assistantHandler "LundyVoice/internal/api/assistant/handler"
	assistantRepository "LundyVoice/internal/api/assistant/repository"
	assistantService "LundyVoice/internal/api/assistant/service"
	"LundyVoice/internal/content"
	"LundyVoice/internal/middleware"
	assistantPkg "LundyVoice/pkg/assistant"
	"LundyVoice/pkg/audio"
	"LundyVoice/pkg/knowledge"
	"LundyVoice/pkg/redis"
	"LundyVoice/pkg/s3"
	"LundyVoice/pkg/smtp"
	"LundyVoice/pkg/utils"
	"LundyVoice/pkg/voice"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	content     *content.Content
	pages       *knowledge.Store
	redisServer redis.IRedis
	sessions    assistantRepository.SessionStore
	smtpMailer  smtp.ItfSmtp
	s3Client    s3.ItfS3
	transcriber voice.Transcriber
	synthesizer voice.Synthesizer
	staticDir   string
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if server.content == nil {
		c, err := content.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded content: %w", err)
		}
		server.content = c
	}
	if server.sessions == nil {
		server.sessions = assistantRepository.NewMemorySessionStore()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.WithIDGenerator(server.utils))
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects to DB_DRIVER (postgres or sqlite3) and applies the
// schema.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		var (
			db  *sqlx.DB
			err error
		)

		driver := os.Getenv("DB_DRIVER")
		switch driver {
		case "", "postgres":
			db, err = postgres.New()
		case "sqlite3", "sqlite":
			db, err = sqlite.New(os.Getenv("SQLITE_PATH"))
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", driver)
		}
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := assistantRepository.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s.db = db
		return nil
	}
}

// WithContent loads the content file at path, or the embedded default.
func WithContent(path string) ServerOption {
	return func(s *Server) error {
		c, err := content.Load(path)
		if err != nil {
			return err
		}
		s.content = c
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

// WithSessionStore picks the dialogue session backend from SESSION_BACKEND.
// The redis backend needs WithRedisServer first.
func WithSessionStore() ServerOption {
	return func(s *Server) error {
		switch backend := os.Getenv("SESSION_BACKEND"); backend {
		case "", "memory":
			s.sessions = assistantRepository.NewMemorySessionStore()
		case "redis":
			if s.redisServer == nil {
				return fmt.Errorf("redis session backend requires a redis server")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.redisServer.Ping(ctx); err != nil {
				return fmt.Errorf("failed to reach redis: %w", err)
			}
			s.sessions = assistantRepository.NewRedisSessionStore(s.redisServer, 0)
		default:
			return fmt.Errorf("unsupported SESSION_BACKEND %q", backend)
		}
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

// WithMiddleware builds the middleware set. RATE_LIMIT_RPS and
// RATE_LIMIT_BURST override the per-IP limits.
func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}

		var opts []middleware.Option
		if s.utils != nil {
			opts = append(opts, middleware.WithIDGenerator(s.utils))
		}

		rps, burst := os.Getenv("RATE_LIMIT_RPS"), os.Getenv("RATE_LIMIT_BURST")
		if rps != "" || burst != "" {
			r, err := strconv.ParseFloat(defaultString(rps, "50"), 64)
			if err != nil || r <= 0 {
				return fmt.Errorf("invalid RATE_LIMIT_RPS %q", rps)
			}
			b, err := strconv.Atoi(defaultString(burst, "100"))
			if err != nil || b <= 0 {
				return fmt.Errorf("invalid RATE_LIMIT_BURST %q", burst)
			}
			opts = append(opts, middleware.WithRateLimit(rate.Limit(r), b))
		}

		s.middleware = middleware.New(s.log, opts...)
		return nil
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// WithS3Client enables compliance report archiving. Missing AWS settings
// leave archiving off.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("S3 archive disabled: %v", err)
			}
			return nil
		}
		s.s3Client = client
		return nil
	}
}

// WithSpeechEngines enables Whisper transcription and ElevenLabs synthesis
// for whichever API keys are set.
func WithSpeechEngines() ServerOption {
	return func(s *Server) error {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			s.transcriber = audio.NewTranscriptionService(key, os.Getenv("OPENAI_BASE_URL"))
		}
		if key := os.Getenv("ELEVENLABS_API_KEY"); key != "" {
			s.synthesizer = audio.NewTTSService(key, os.Getenv("ELEVENLABS_VOICE_ID"))
		}
		if s.log != nil {
			s.log.WithFields(logrus.Fields{
				"transcription": s.transcriber != nil,
				"synthesis":     s.synthesizer != nil,
			}).Info("Speech engines configured")
		}
		return nil
	}
}

func WithStaticDir(dir string) ServerOption {
	return func(s *Server) error {
		s.staticDir = strings.TrimSpace(dir)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	debounce := knowledge.DefaultDebounce
	if raw := os.Getenv("REINDEX_DEBOUNCE"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			debounce = d
		} else {
			s.log.Warnf("Ignoring invalid REINDEX_DEBOUNCE %q", raw)
		}
	}

	s.pages = knowledge.NewStore(knowledge.WithDebounce(debounce), knowledge.WithLogger(s.log))
	chunks := s.content.Seed(s.pages)
	s.log.WithField("chunks", chunks).Info("Page index seeded")

	// Assistant Domain
	assistantRepo := assistantRepository.New(s.db, s.log)
	dispatcher := s.content.Dispatcher(s.pages, assistantPkg.WithLogger(s.log))

	opts := []assistantService.Option{
		assistantService.WithComplianceItems(s.content.Compliance),
	}
	if s.transcriber != nil {
		opts = append(opts, assistantService.WithTranscriber(s.transcriber))
	}
	if s.synthesizer != nil {
		opts = append(opts, assistantService.WithSynthesizer(s.synthesizer))
	}
	if s.smtpMailer != nil {
		opts = append(opts, assistantService.WithMailer(s.smtpMailer))
	}
	if s.s3Client != nil {
		opts = append(opts, assistantService.WithArchive(s.s3Client))
	}

	assistantServices := assistantService.NewAssistantService(s.log, assistantRepo, s.sessions, dispatcher, s.pages, s.utils, opts...)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.handlers = append(s.handlers, assistantHandlers)
}

// mount installs middleware and routes. Static fallbacks go last so they
// never shadow the API.
func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}

	if s.staticDir != "" {
		s.setupStaticSite(s.staticDir)
	}
}

func (s *Server) Run() error {
	s.mount()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops the listener and releases the page index and database.
func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()
	if s.pages != nil {
		s.pages.Close()
	}
	if s.db != nil {
		if closeErr := s.db.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		status := fiber.Map{"message": "Server is Healthy!", "database": "up"}

		c, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(c); err != nil {
			status["database"] = "down"
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(status)
		}

		return ctx.JSON(status)
	})
}
