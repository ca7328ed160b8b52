package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"LundyVoice/internal/entity"
	jwtPkg "LundyVoice/pkg/jwt"
)

func (m *middleware) unauthorized(ctx *fiber.Ctx, reason string) error {
	m.log.WithFields(logrus.Fields{
		"path":      ctx.Path(),
		"client_ip": ctx.IP(),
		"error":     reason,
	}).Warn("Admin token check failed")

	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
	})
}

// NewTokenMiddleware admits requests bearing a valid token with the admin role.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	if ctx.Get("Authorization") == "" {
		return m.unauthorized(ctx, "Authorization header is missing")
	}

	token, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.AccessTokenSecret)
	if err != nil {
		return m.unauthorized(ctx, err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return m.unauthorized(ctx, "Invalid token claims")
	}

	role, _ := claims["role"].(string)
	subject, _ := claims["sub"].(string)
	if entity.ParseRole(role) != entity.RoleAdmin || subject == "" {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin role required",
		})
	}

	ctx.Locals(jwtPkg.AdminLocalsKey, entity.AdminLoginData{
		Subject: subject,
		Role:    entity.RoleAdmin,
	})

	m.log.WithField("subject", subject).Debug("Admin authentication successful")
	return ctx.Next()
}
