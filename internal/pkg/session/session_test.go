package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driversheet/driversheet-web/internal/pkg/config"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
)

func setupTestStore(t *testing.T) {
	t.Helper()
	UseStore(session.New(session.Config{KeyLookup: "cookie:session_id"}))
	SetTokenCodec(identity.NewCodec([]byte("test-secret"), time.Hour))
	t.Cleanup(func() {
		UseStore(nil)
		SetTokenCodec(nil)
	})
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		return StartSession(c, identity.Token{Subject: "sub-1", Email: "driver@example.com", UserID: 42, Synced: true})
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		tok, err := LoadToken(c)
		if err != nil {
			return err
		}
		return c.SendString(tok.Subject + "|" + tok.State().String())
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		return Destroy(c)
	})
	app.Get("/tamper", func(c *fiber.Ctx) error {
		sess, err := GetSessionStore().Get(c)
		if err != nil {
			return err
		}
		sess.Set(tokenKey, "not-a-jwt")
		return sess.Save()
	})
	return app
}

func do(t *testing.T, app *fiber.App, path string, cookies []*http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLoadToken_AnonymousWithoutCookie(t *testing.T) {
	setupTestStore(t)
	_, body := do(t, newTestApp(), "/whoami", nil)
	assert.Equal(t, "|unauthenticated", body)
}

func TestSaveAndLoadToken(t *testing.T) {
	setupTestStore(t)
	app := newTestApp()

	resp, _ := do(t, app, "/login", nil)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	_, body := do(t, app, "/whoami", cookies)
	assert.Equal(t, "sub-1|authenticated-synced", body)

	do(t, app, "/logout", cookies)
	_, body = do(t, app, "/whoami", cookies)
	assert.Equal(t, "|unauthenticated", body)
}

func TestLoadToken_TamperedTokenIsDiscarded(t *testing.T) {
	setupTestStore(t)
	app := newTestApp()

	resp, _ := do(t, app, "/tamper", nil)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	resp, body := do(t, app, "/whoami", cookies)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "|unauthenticated", body)
}

func TestLoadToken_NotInitialized(t *testing.T) {
	UseStore(nil)
	SetTokenCodec(nil)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := LoadToken(c)
		return err
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestNewStorage_MemoryIsNil(t *testing.T) {
	assert.Nil(t, NewStorage(&config.Config{SessionStorage: "memory"}, SessionDB))
}
