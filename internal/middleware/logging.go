package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"LundyVoice/pkg/log"
)

const maxLoggedTranscript = 200

var sensitiveFields = []string{
	"password", "token", "secret", "key", "auth",
	"credential", "authorization",
}

// Paths logged at debug level only; polled by load balancers and the SPA.
var quietPaths = []string{"/health"}

func newLoggingMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil && status == fiber.StatusInternalServerError {
			return err
		}

		logFields := log.Fields{
			"request_id":    requestID,
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get("User-Agent"),
			"response_size": len(c.Response().Body()),
		}
		if sessionID := c.Params("session_id"); sessionID != "" {
			logFields["session_id"] = sessionID
		}

		contentType := string(c.Request().Header.ContentType())
		switch {
		case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
			logFields["request_body"] = "[audio upload]"
		case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) && len(c.Request().Body()) > 0:
			body, sessionID := sanitizeRequestBody(c.Path(), string(c.Request().Body()))
			logFields["request_body"] = body
			if sessionID != "" {
				logFields["session_id"] = sessionID
			}
		}

		entry := logger.WithFields(logFields)
		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		case isQuiet(c.Path()):
			entry.Debug("Success")
		default:
			entry.Info("Success")
		}

		return err
	}
}

func isQuiet(path string) bool {
	for _, p := range quietPaths {
		if path == p {
			return true
		}
	}
	return false
}

// sanitizeRequestBody masks credentials, booking contact details and long
// transcripts. It also returns the session id when the body names one.
func sanitizeRequestBody(path string, body string) (string, string) {
	var jsonBody map[string]interface{}
	if err := jsoniter.Unmarshal([]byte(body), &jsonBody); err != nil {
		return "[non-JSON body]", ""
	}

	masked := sensitiveFields
	if strings.Contains(path, "/booking") {
		masked = append(masked[:len(masked):len(masked)], "email", "name")
	}

	for _, field := range masked {
		if _, exists := jsonBody[field]; exists {
			jsonBody[field] = "[SECRET]"
		}
	}

	for _, field := range []string{"text", "transcript"} {
		if s, ok := jsonBody[field].(string); ok && len(s) > maxLoggedTranscript {
			jsonBody[field] = s[:maxLoggedTranscript] + "..."
		}
	}

	sessionID, _ := jsonBody["session_id"].(string)

	sanitized, err := jsoniter.Marshal(jsonBody)
	if err != nil {
		return "[sanitization-failed]", sessionID
	}

	return string(sanitized), sessionID
}
