package handlerUtil

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LundyVoice/pkg/response"
)

func TestErrorHandler_Handle(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"coded", response.NewCodedError(409, "NO_BOOKING_IN_REVIEW", "nothing to confirm"), 409, "NO_BOOKING_IN_REVIEW"},
		{"wrapped coded", fmt.Errorf("confirm: %w", response.NewCodedError(404, "BOOKING_NOT_FOUND", "missing")), 404, "BOOKING_NOT_FOUND"},
		{"uncoded", response.NewError(429, "too many requests"), 429, ""},
		{"unexpected", errors.New("boom"), 500, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return h.Handle(c, "req-1", tt.err, c.Path(), "test")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]any
			require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			} else {
				assert.NotContains(t, body, "code")
			}
			if tt.status == 500 {
				assert.Equal(t, "trace id req-1", body["details"])
			}
		})
	}
}

func TestErrorHandler_HandleSuccess(t *testing.T) {
	h := New(logrus.New())
	app := fiber.New()
	app.Get("/empty", func(c *fiber.Ctx) error { return h.HandleSuccess(c, fiber.StatusNoContent, nil) })
	app.Get("/body", func(c *fiber.Ctx) error { return h.HandleSuccess(c, fiber.StatusOK, fiber.Map{"ok": true}) })

	resp, err := app.Test(httptest.NewRequest("GET", "/empty", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/body", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
