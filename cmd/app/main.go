package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"LundyVoice/internal/config"
	"LundyVoice/pkg/log"
	"LundyVoice/pkg/redis"
	"LundyVoice/pkg/smtp"
)

// bootstrap loads the env files before building the logger so LOG_LEVEL and
// APP_ENV from .env take effect. A missing file is reported, not fatal.
func bootstrap(envFiles ...string) *logrus.Logger {
	envErr := godotenv.Load(envFiles...)
	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", envErr)
	}
	return logger
}

func main() {
	logger := bootstrap()

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithContent(os.Getenv("CONTENT_FILE")),
	}
	if os.Getenv("SESSION_BACKEND") == "redis" {
		options = append(options, config.WithRedisServer(redis.New()))
	}
	if os.Getenv("SMTP_MAIL") != "" {
		options = append(options, config.WithSMTPMailer(smtp.New()))
	}
	options = append(options,
		config.WithSessionStore(),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithSpeechEngines(),
		config.WithStaticDir(os.Getenv("STATIC_DIR")),
		config.WithUtils(),
	)

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
