package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driversheet/driversheet-web/app/controllers"
	"github.com/driversheet/driversheet-web/internal/pkg/middleware"
	"github.com/driversheet/driversheet-web/internal/pkg/oauth"
	"github.com/driversheet/driversheet-web/internal/pkg/session"
)

type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	cfg := h.deps.Config

	// init session
	session.NewSessionStore(cfg)

	// init oauth providers
	oauth.Setup(cfg)

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(h.deps.Provider))

	controllers.InitializeSite(controllers.SiteSettings{
		SupportEmail: cfg.SupportEmail,
		IsDev:        cfg.IsDev(),
	})
	controllers.InitializeOAuthController(h.deps.Provider)
	controllers.InitializeDashboardController(h.deps.Logs)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
