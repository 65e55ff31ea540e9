package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driversheet/driversheet-web/internal/pkg/identity"
)

// Set stores the request's session view. It is set once per request by
// the user context middleware and treated as read-only afterwards.
func Set(c *fiber.Ctx, s identity.Session) {
	c.Locals(KeySession, s)
}

// Get returns the session view for the request, or an unauthenticated view
// if none is set.
func Get(c *fiber.Ctx) identity.Session {
	if s, ok := c.Locals(KeySession).(identity.Session); ok {
		return s
	}
	return identity.Session{State: identity.StateUnauthenticated}
}

func IsLoggedIn(c *fiber.Ctx) bool {
	return Get(c).IsAuthenticated()
}
