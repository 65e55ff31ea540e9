package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driversheet/driversheet-web/internal/pkg/usercontext"
)

// RequireAuth ensures a signed-in web session; redirects to /auth if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		if c.Get("HX-Request") == "true" {
			c.Set("HX-Redirect", "/auth")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Redirect("/auth", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a signed-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
