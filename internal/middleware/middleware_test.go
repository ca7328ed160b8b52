package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contextPkg "LundyVoice/pkg/context"
	jwtPkg "LundyVoice/pkg/jwt"
)

func newTestApp(t *testing.T, opts ...Option) (*fiber.App, Middleware) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := New(logger, opts...)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	return app, m
}

func TestTokenMiddleware(t *testing.T) {
	app, m := newTestApp(t)
	app.Get("/admin", m.NewTokenMiddleware, func(c *fiber.Ctx) error {
		admin, err := jwtPkg.GetAdminLoginData(c)
		if err != nil {
			return err
		}
		return c.SendString(admin.Subject)
	})

	adminToken, _, err := jwtPkg.SignAdmin("ops", time.Hour)
	require.NoError(t, err)
	visitorToken, _, err := jwtPkg.Sign(map[string]interface{}{"sub": "visitor", "role": "visitor"}, time.Hour)
	require.NoError(t, err)
	expiredToken, _, err := jwtPkg.SignAdmin("ops", -time.Hour)
	require.NoError(t, err)
	foreignToken, _, err := jwtPkg.SignWithSecret("other-secret", map[string]interface{}{"sub": "ops", "role": "admin"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"expired", "Bearer " + expiredToken, fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreignToken, fiber.StatusUnauthorized},
		{"not admin", "Bearer " + visitorToken, fiber.StatusForbidden},
		{"admin", "Bearer " + adminToken, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "ops", string(body))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	app, m := newTestApp(t, WithRateLimit(1, 2))
	app.Get("/", m.NewRateLimiter, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	var statuses []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{200, 200, 429}, statuses)
}

func TestRequestIDMiddleware(t *testing.T) {
	app, m := newTestApp(t)
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Equal(t, m.GetRequestID(c), contextPkg.GetRequestID(c.UserContext()))
		return c.SendString(m.GetRequestID(c))
	})

	tests := []struct {
		name     string
		header   string
		wantEcho bool
	}{
		{"generated", "", false},
		{"client supplied", "given-id", true},
		{"too long", strings.Repeat("a", 65), false},
		{"unsafe characters", "id;forged=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDKey, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, string(body), resp.Header.Get(RequestIDKey))

			if tt.wantEcho {
				assert.Equal(t, tt.header, string(body))
			} else {
				assert.Len(t, string(body), 26, "a fresh ULID replaces the header")
			}
		})
	}
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	r := newRateLimiter(1, 1, func() time.Time { return now })

	first := r.GetLimiterFrom("10.0.0.1")
	r.GetLimiterFrom("10.0.0.2")
	assert.Equal(t, 2, r.size())
	assert.Same(t, first, r.GetLimiterFrom("10.0.0.1"))

	now = now.Add(5 * time.Minute)
	r.GetLimiterFrom("10.0.0.1")

	now = now.Add(visitorIdleTTL)
	r.GetLimiterFrom("10.0.0.3")
	assert.Equal(t, 1, r.size(), "visitors idle past the TTL are dropped on the next sweep")
}

func TestLoggingMiddleware(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m := New(logger)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware(), m.NewLoggingMiddleware())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/sessions/:session_id/booking", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusConflict) })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)

	req := httptest.NewRequest(http.MethodPost, "/sessions/s1/booking", strings.NewReader(`{"email":"j@x.io"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	_, err = app.Test(req)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "s1", entry.Data["session_id"])
	assert.Equal(t, `{"email":"[SECRET]"}`, entry.Data["request_body"])
}

func TestSanitizeRequestBody(t *testing.T) {
	long := strings.Repeat("x", maxLoggedTranscript+10)

	tests := []struct {
		name        string
		path        string
		body        string
		want        string
		wantSession string
	}{
		{"secret field", "/api/v1/assistant/command", `{"text":"hi","token":"abc"}`, `{"text":"hi","token":"[SECRET]"}`, ""},
		{"booking contact", "/api/v1/assistant/booking/confirm", `{"session_id":"s1","name":"Jane","email":"j@x.io"}`, `{"session_id":"s1","name":"[SECRET]","email":"[SECRET]"}`, "s1"},
		{"email elsewhere", "/api/v1/assistant/command", `{"email":"j@x.io"}`, `{"email":"j@x.io"}`, ""},
		{"long transcript", "/api/v1/assistant/command", `{"text":"` + long + `"}`, `{"text":"` + long[:maxLoggedTranscript] + `..."}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sessionID := sanitizeRequestBody(tt.path, tt.body)
			assert.JSONEq(t, tt.want, got)
			assert.Equal(t, tt.wantSession, sessionID)
		})
	}

	got, _ := sanitizeRequestBody("/", "audio-bytes")
	assert.Equal(t, "[non-JSON body]", got)
}
