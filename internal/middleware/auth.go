package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tatsumix0801/tube-get/internal/auth"
)

// NewAuthGuard returns a middleware rejecting requests without a valid
// session cookie. When no password is configured the gate is open.
func NewAuthGuard(store *auth.Store, enabled bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !enabled {
			return c.Next()
		}
		if !store.Valid(c.Cookies(auth.SessionCookie)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "ログインが必要です",
			})
		}
		return c.Next()
	}
}
