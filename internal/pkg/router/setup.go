package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driversheet/driversheet-web/internal/pkg/apidocs"
	"github.com/driversheet/driversheet-web/internal/pkg/backend"
	"github.com/driversheet/driversheet-web/internal/pkg/config"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the long-lived services the routes hand to controllers.
type Dependencies struct {
	Config   *config.Config
	Provider *identity.Provider
	Logs     backend.LogFetcher
	// Docs validates API request bodies; nil disables validation.
	Docs *apidocs.Document
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// Install HttpRouter first to initialize session store, oauth providers,
	// and the global UserContext middleware. Then register API routes which
	// depend on that middleware.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
