package middleware

import (
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"

	contextPkg "LundyVoice/pkg/context"
	"LundyVoice/pkg/utils"
)

const RequestIDKey = contextPkg.RequestIDHeader

// Client-supplied ids are echoed into logs, so only short opaque tokens pass.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func newRequestIDMiddleware(ids utils.IUtils, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if !validRequestID.MatchString(requestID) {
			requestID, _ = ids.NewULIDFromTimestamp(now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)
		c.SetUserContext(contextPkg.WithRequestID(c.UserContext(), requestID))

		return c.Next()
	}
}
