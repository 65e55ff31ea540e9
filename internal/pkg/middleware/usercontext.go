package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/session"
	"github.com/driversheet/driversheet-web/internal/pkg/usercontext"
)

// UserContextMiddleware loads the session token, gives it a periodic
// refresh and exposes the resulting session view to handlers.
func UserContextMiddleware(provider *identity.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Goth keeps its own session on the OAuth routes; skip ours there.
		if strings.HasPrefix(c.Path(), "/auth/") {
			return c.Next()
		}

		tok, err := session.LoadToken(c)
		if err != nil {
			log.Errorw("failed to load session", "error", err)
			usercontext.Set(c, identity.Token{}.Session())
			return c.Next()
		}

		// only a sync attempt changes what is persisted
		persist := provider.NeedsSync(tok)
		tok = provider.Refresh(c.UserContext(), tok, identity.PeriodicRefresh{})
		if persist {
			if err := session.SaveToken(c, tok); err != nil {
				log.Errorw("failed to save refreshed session", "error", err)
			}
		}

		usercontext.Set(c, tok.Session())
		return c.Next()
	}
}
