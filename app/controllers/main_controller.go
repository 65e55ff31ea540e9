package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/driversheet/driversheet-web/internal/pkg/cache"
	"github.com/driversheet/driversheet-web/internal/pkg/viewmodel"
	"github.com/driversheet/driversheet-web/views"
)

// HandleStart renders the landing page.
func HandleStart(c *fiber.Ctx) error {
	vm := viewmodel.NewLanding(newLayout(c, "landing", ""))
	return renderPage(c, views.PageLanding, vm)
}

// HandleError renders the generic error page with the given status.
func HandleError(c *fiber.Ctx, status int) error {
	l := newLayout(c, "error", fiber.NewError(status).Message)
	l.IsError = true
	c.Status(status)
	return renderPage(c, views.PageError, l)
}

// HandleHealth reports liveness. It fails when the session storage cannot
// be reached.
func HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		log.Warnw("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"cache":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
