package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/driversheet/driversheet-web/internal/pkg/config"
	"github.com/driversheet/driversheet-web/internal/pkg/usercontext"
	"github.com/driversheet/driversheet-web/internal/pkg/viewmodel"
	"github.com/driversheet/driversheet-web/views"
)

// SiteSettings are the values every page layout needs.
type SiteSettings struct {
	SupportEmail string
	IsDev        bool
	Now          func() time.Time
}

var site = SiteSettings{SupportEmail: config.DefaultSupportEmail, Now: time.Now}

func InitializeSite(s SiteSettings) {
	if s.SupportEmail == "" {
		s.SupportEmail = config.DefaultSupportEmail
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	site = s
}

func isLoggedIn(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

func csrfToken(c *fiber.Ctx) string {
	if token, ok := c.Locals("csrf").(string); ok {
		return token
	}
	return ""
}

func newLayout(c *fiber.Ctx, page, title string) viewmodel.Layout {
	s := usercontext.Get(c)
	return viewmodel.Layout{
		Page:          page,
		Title:         title,
		FromProtected: s.IsAuthenticated(),
		Msg:           flash.Get(c),
		Email:         s.Email,
		CSRF:          csrfToken(c),
		SupportEmail:  site.SupportEmail,
		Year:          site.Now().Year(),
		IsDev:         site.IsDev,
	}
}

func renderPage(c *fiber.Ctx, name string, vm interface{}) error {
	return c.Render(name, vm, views.MainLayout)
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
