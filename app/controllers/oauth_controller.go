package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/session"
)

// completeUserAuth finishes phase two of the OAuth redirect; replaced in tests.
var completeUserAuth = func(c *fiber.Ctx) (goth.User, error) {
	return gothfiber.CompleteUserAuth(c)
}

type OAuthController struct {
	provider *identity.Provider
}

var oauthController *OAuthController

func InitializeOAuthController(provider *identity.Provider) {
	oauthController = &OAuthController{provider: provider}
}

// HandleOAuthCallback completes the provider flow, syncs the identity with
// the backend and starts the session. A backend failure still signs the user
// in; the session is synced on a later request.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := completeUserAuth(c)
	if err != nil || u.UserID == "" {
		log.Warnw("oauth callback failed", "provider", c.Params("provider"), "error", err)
		return signInFailed(c)
	}

	prev, err := session.LoadToken(c)
	if err != nil {
		log.Warnw("ignoring unreadable session during sign-in", "error", err)
		prev = identity.Token{}
	}

	tok := oauthController.provider.Refresh(c.UserContext(), prev, identity.InitialSignIn{
		Profile: identity.Profile{Subject: u.UserID, Email: u.Email},
	})
	if err := session.StartSession(c, tok); err != nil {
		log.Errorw("failed to start session", "error", err)
		return signInFailed(c)
	}

	log.Infow("user signed in", "subject", tok.Subject, "state", tok.State().String())

	// Ensure HTMX boosted flows perform a full redirect
	c.Set("HX-Redirect", "/dash")
	return c.Redirect("/dash", fiber.StatusSeeOther)
}

func signInFailed(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type":    "error",
		"message": "Sign-in with Google failed. Please try again.",
	}
	return flash.WithError(c, fm).Redirect("/auth", fiber.StatusSeeOther)
}
