package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// setupStaticSite serves dir and answers every other non-API GET with its
// index.html, so client-side routes such as /navigator load the app.
func (s *Server) setupStaticSite(dir string) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		s.log.WithField("static_dir", dir).Warn("STATIC_DIR has no index.html, static site disabled")
		return
	}

	s.engine.Static("/", dir, fiber.Static{Compress: true})
	s.engine.Get("/*", func(ctx *fiber.Ctx) error {
		if strings.HasPrefix(ctx.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return ctx.SendFile(index)
	})
}
