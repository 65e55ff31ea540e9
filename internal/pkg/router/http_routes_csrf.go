package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/driversheet/driversheet-web/app/controllers"
	"github.com/driversheet/driversheet-web/internal/pkg/middleware"
)

// CSRFCookieName is left out of cookie encryption so the token in the form
// can be compared with it.
const CSRFCookieName = "csrf_"

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     CSRFCookieName,
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !h.deps.Config.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", controllers.HandleStart)
	group.Get("/auth", controllers.HandleAuthPage)
	group.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
	group.Get("/dash", middleware.RequireAuth, controllers.HandleDashboard)
	group.Get("/dash/logs", middleware.RequireAuth, controllers.HandleDashboardLogs)
}
