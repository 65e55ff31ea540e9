package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/backend"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/middleware"
	"github.com/driversheet/driversheet-web/internal/pkg/session"
	"github.com/driversheet/driversheet-web/views"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	upsertErr  error
	logs       []models.LogEntry
	logsErr    error
	upserts    int
	fetchCalls int
}

func (f *fakeBackend) UpsertIdentity(_ context.Context, req backend.UpsertRequest) (*models.Account, error) {
	f.upserts++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return &models.Account{
		ID:             42,
		GoogleID:       req.GoogleID,
		Email:          req.Email,
		ForwardAddress: "user-k3y@driversheet.com",
		Created:        "2024-05-08T12:00:00",
		PaymentURL:     "https://pay.example.com/checkout",
	}, nil
}

func (f *fakeBackend) FetchLogs(_ context.Context, id int64) ([]models.LogEntry, error) {
	f.fetchCalls++
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return f.logs, nil
}

func newTestApp(t *testing.T, fb *fakeBackend) *fiber.App {
	t.Helper()

	session.UseStore(fibersession.New(fibersession.Config{KeyLookup: "cookie:session_id"}))
	session.SetTokenCodec(identity.NewCodec([]byte("test-secret"), time.Hour))
	prevComplete := completeUserAuth
	completeUserAuth = func(*fiber.Ctx) (goth.User, error) {
		return goth.User{UserID: "sub-1", Email: "driver@example.com", Provider: "google"}, nil
	}
	t.Cleanup(func() {
		session.UseStore(nil)
		session.SetTokenCodec(nil)
		completeUserAuth = prevComplete
	})

	provider := identity.NewProvider(fb, identity.WithClock(func() time.Time { return fixedNow }))
	InitializeSite(SiteSettings{SupportEmail: "help@example.com", Now: func() time.Time { return fixedNow }})
	InitializeOAuthController(provider)
	InitializeDashboardController(fb)
	InitializeAPISessionController(provider, fb, nil)

	app := fiber.New(fiber.Config{Views: views.NewEngine(false)})
	app.Use(middleware.UserContextMiddleware(provider))
	app.Get("/", HandleStart)
	app.Get("/auth", HandleAuthPage)
	app.Get("/auth/:provider/callback", HandleOAuthCallback)
	app.Post("/logout", middleware.RequireAuth, HandleAuthLogout)
	app.Get("/dash", middleware.RequireAuth, HandleDashboard)
	app.Get("/dash/logs", middleware.RequireAuth, HandleDashboardLogs)

	api := app.Group("/api/v1", middleware.RequireAPISessionAuth)
	api.Get("/session", HandleAPIGetSession)
	api.Patch("/session", HandleAPIPatchSession)
	api.Get("/logs", HandleAPIGetLogs)
	api.Get("/logs.csv", HandleAPIGetLogsCSV)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string, cookies []*http.Cookie) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func signIn(t *testing.T, app *fiber.App) []*http.Cookie {
	t.Helper()
	resp, _ := send(t, app, http.MethodGet, "/auth/google/callback?state=x&code=y", "", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dash", resp.Header.Get("Location"))
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func sessionJSON(t *testing.T, app *fiber.App, cookies []*http.Cookie) map[string]any {
	t.Helper()
	resp, body := send(t, app, http.MethodGet, "/api/v1/session", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestLandingPage(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	resp, body := send(t, app, http.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Start 7-day trial")
	assert.Contains(t, body, "How It Works")
	assert.Contains(t, body, "help@example.com")
}

func TestAuthPage(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	resp, body := send(t, app, http.MethodGet, "/auth", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `href="/auth/google"`)
	assert.Contains(t, body, "Continue with Google")
	assert.Contains(t, body, "mailto:help@example.com")

	cookies := signIn(t, app)
	resp, _ = send(t, app, http.MethodGet, "/auth", "", cookies)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dash", resp.Header.Get("Location"))
}

func TestDashboard_RequiresSignIn(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	resp, _ := send(t, app, http.MethodGet, "/dash", "", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}

func TestOAuthCallback_SyncedSession(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)

	cookies := signIn(t, app)
	assert.Equal(t, 1, fb.upserts)

	resp, body := send(t, app, http.MethodGet, "/dash", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "user-k3y@driversheet.com")
	assert.Contains(t, body, `data-copy="user-k3y@driversheet.com"`)
	assert.Contains(t, body, "5 days remaining in trial")
	assert.Contains(t, body, `hx-get="/dash/logs"`)
	assert.Contains(t, body, `href="https://pay.example.com/checkout"`)

	s := sessionJSON(t, app, cookies)
	assert.Equal(t, "authenticated-synced", s["state"])
	assert.EqualValues(t, 42, s["id"])
	assert.EqualValues(t, 5, s["trialDaysRemaining"])
	assert.Equal(t, 1, fb.upserts)
}

func TestOAuthCallback_BackendDownStillSignsIn(t *testing.T) {
	fb := &fakeBackend{upsertErr: &backend.SyncError{Status: 503}}
	app := newTestApp(t, fb)

	cookies := signIn(t, app)

	resp, body := send(t, app, http.MethodGet, "/dash", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "being set up")

	resp, body = send(t, app, http.MethodGet, "/dash/logs", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Failed to load logs")
	assert.Zero(t, fb.fetchCalls)

	s := sessionJSON(t, app, cookies)
	assert.Equal(t, "authenticated-unsynced", s["state"])
	assert.EqualValues(t, 0, s["id"])
	assert.Equal(t, "driver@example.com", s["email"])
	assert.Nil(t, s["sheetId"])
}

func TestOAuthCallback_ProviderError(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})
	completeUserAuth = func(*fiber.Ctx) (goth.User, error) {
		return goth.User{}, errors.New("state mismatch")
	}

	resp, _ := send(t, app, http.MethodGet, "/auth/google/callback", "", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}

func TestDashboardLogs_States(t *testing.T) {
	m := 5.0
	tests := []struct {
		name    string
		logs    []models.LogEntry
		err     error
		want    []string
		notWant []string
	}{
		{
			name: "loaded",
			logs: []models.LogEntry{
				{ID: 1, OrderDate: "2024-05-01", Gross: 100, Tips: 10, Mileage: &m, ParsedAt: "2024-05-01T18:00:00"},
				{ID: 2, OrderDate: "2024-05-02", Gross: 50, ParsedAt: "2024-05-02T18:00:00"},
			},
			want:    []string{`data-state="loaded"`, "$150.00", "Export CSV", "driversheet-logs-2024-05-10.csv"},
			notWant: []string{"Trial Expired", "No logs yet"},
		},
		{
			name:    "empty",
			want:    []string{`data-state="loaded"`, "No logs yet", "$0.00"},
			notWant: []string{"Export CSV"},
		},
		{
			name:    "payment required",
			err:     &backend.PaymentRequiredError{AccountID: 42},
			want:    []string{`data-state="payment-required"`, "Trial Expired", "https://pay.example.com/checkout"},
			notWant: []string{"Total Gross", "<table>"},
		},
		{
			name:    "failed",
			err:     &backend.FetchError{Status: 500},
			want:    []string{`data-state="failed"`, "Failed to load logs"},
			notWant: []string{"Total Gross"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{logs: tt.logs, logsErr: tt.err}
			app := newTestApp(t, fb)
			cookies := signIn(t, app)

			resp, body := send(t, app, http.MethodGet, "/dash/logs", "", cookies)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, body, s)
			}
			assert.Equal(t, 1, fb.fetchCalls)
		})
	}
}

func TestAPILogs(t *testing.T) {
	m := 5.0
	fb := &fakeBackend{logs: []models.LogEntry{
		{ID: 1, UserID: 42, OrderDate: "2024-05-01", Gross: 100, Tips: 10, Mileage: &m, ParsedAt: "p1"},
		{ID: 2, UserID: 42, OrderDate: "2024-05-02", Gross: 50, ParsedAt: "p2"},
	}}
	app := newTestApp(t, fb)
	cookies := signIn(t, app)

	resp, body := send(t, app, http.MethodGet, "/api/v1/logs", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out logsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Logs, 2)
	assert.Equal(t, int64(1), out.Logs[0].ID)
	assert.Equal(t, 150.0, out.Stats.TotalGross)
	assert.Equal(t, 2, out.Stats.Deliveries)

	resp, body = send(t, app, http.MethodGet, "/api/v1/logs.csv", "", cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "driversheet-logs-2024-05-10.csv")
	assert.Equal(t, "Date,Gross,Tips,Mileage,Parsed At\n2024-05-01,100,10,5,p1\n2024-05-02,50,0,,p2\n", body)
}

func TestAPILogs_ErrorMapping(t *testing.T) {
	fb := &fakeBackend{logsErr: &backend.PaymentRequiredError{AccountID: 42}}
	app := newTestApp(t, fb)
	cookies := signIn(t, app)

	resp, body := send(t, app, http.MethodGet, "/api/v1/logs", "", cookies)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
	assert.Contains(t, body, `"payment_required"`)
	assert.Contains(t, body, "https://pay.example.com/checkout")

	fb.logsErr = &backend.FetchError{Status: 500, Body: "db down"}
	resp, body = send(t, app, http.MethodGet, "/api/v1/logs", "", cookies)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.NotContains(t, body, "db down")
}

func TestAPILogs_UnsyncedSession(t *testing.T) {
	fb := &fakeBackend{upsertErr: errors.New("down")}
	app := newTestApp(t, fb)
	cookies := signIn(t, app)

	resp, _ := send(t, app, http.MethodGet, "/api/v1/logs", "", cookies)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Zero(t, fb.fetchCalls)
}

func TestAPI_RequiresSession(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})

	resp, _ := send(t, app, http.MethodGet, "/api/v1/session", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIPatchSession(t *testing.T) {
	fb := &fakeBackend{}
	app := newTestApp(t, fb)
	cookies := signIn(t, app)

	resp, body := send(t, app, http.MethodPatch, "/api/v1/session",
		`{"sheetId":"https://docs.google.com/spreadsheets/d/1AbC/edit","forwardAddress":"user-other@driversheet.com","paid":true}`, cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)

	s := sessionJSON(t, app, cookies)
	assert.Equal(t, "1AbC", s["sheetId"])
	assert.Equal(t, "user-k3y@driversheet.com", s["forwardAddress"])
	assert.Equal(t, true, s["paid"])
	assert.Nil(t, s["trialDaysRemaining"])
	assert.Equal(t, 1, fb.upserts, "explicit update must not call the backend")

	resp, _ = send(t, app, http.MethodPatch, "/api/v1/session", `{"paid":false}`, cookies)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, sessionJSON(t, app, cookies)["paid"])
}

func TestAPIPatchSession_BadRequest(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})
	cookies := signIn(t, app)

	resp, _ := send(t, app, http.MethodPatch, "/api/v1/session", `{}`, cookies)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, http.MethodPatch, "/api/v1/session", `{"sheetId":`, cookies)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, &fakeBackend{})
	cookies := signIn(t, app)

	resp, _ := send(t, app, http.MethodPost, "/logout", "", cookies)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = send(t, app, http.MethodGet, "/dash", "", cookies)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth", resp.Header.Get("Location"))
}
