package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/viewmodel"
	dashboard_views "github.com/driversheet/driversheet-web/views/dashboard"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func session() identity.Session {
	return identity.Session{
		State:      identity.StateSynced,
		ID:         7,
		Created:    "2024-05-08T12:00:00",
		PaymentURL: "https://pay.example.com/checkout",
	}
}

func TestNewEngine_LoadsPages(t *testing.T) {
	engine := NewEngine(false)
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	vm := viewmodel.NewDashboard(viewmodel.Layout{Title: "Dashboard", FromProtected: true, SupportEmail: "help@example.com", Year: 2024}, session(), now)
	placeholder, err := templ.ToGoHTML(context.Background(), dashboard_views.Logs(viewmodel.LoadingLogs(vm.LogsURL)))
	require.NoError(t, err)
	vm.LogsPlaceholder = placeholder
	require.NoError(t, engine.Render(&buf, PageDashboard, vm, MainLayout))

	out := buf.String()
	assert.Contains(t, out, `hx-get="/dash/logs"`)
	assert.Contains(t, out, `hx-trigger="load"`)
	assert.Contains(t, out, "Loading dashboard...")
	assert.Contains(t, out, "<title>DriverSheet | Dashboard</title>")
	assert.Contains(t, out, `data-state="loading"`)
	assert.Contains(t, out, "Upgrade Now")
}
