package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/driversheet/driversheet-web/internal/pkg/session"
	"github.com/driversheet/driversheet-web/views"
)

// HandleAuthPage shows the sign-in screen, or sends signed-in users on to
// the dashboard.
func HandleAuthPage(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		return c.Redirect("/dash", fiber.StatusSeeOther)
	}
	return renderPage(c, views.PageAuth, newLayout(c, "auth", "Sign in"))
}

func HandleAuthLogout(c *fiber.Ctx) error {
	if err := session.Destroy(c); err != nil {
		log.Errorw("failed to destroy session", "error", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "Something went wrong while signing you out. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/dash", fiber.StatusSeeOther)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "You have been signed out.",
	}
	return flash.WithSuccess(c, fm).Redirect("/", fiber.StatusSeeOther)
}
