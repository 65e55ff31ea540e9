package oauth

import (
	"strings"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/driversheet/driversheet-web/internal/pkg/config"
	appsession "github.com/driversheet/driversheet-web/internal/pkg/session"
)

const ProviderGoogle = "google"

// CallbackURL is where Google sends the browser back to in phase two.
func CallbackURL(cfg *config.Config, provider string) string {
	return strings.TrimRight(cfg.BaseURL(), "/") + "/auth/" + provider + "/callback"
}

// Setup registers the Google provider and the store that keeps the OAuth
// state between the redirect and the callback. It is safe to call multiple
// times; providers will just be re-registered.
func Setup(cfg *config.Config) {
	goth.UseProviders(
		google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			CallbackURL(cfg, ProviderGoogle),
			"email", "profile",
		),
	)

	gothfiber.SessionStore = session.New(session.Config{
		Storage:        appsession.NewStorage(cfg, appsession.OAuthStateDB),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !cfg.IsDev(),
		Expiration:     cfg.SessionTTL,
	})
}
