package controllers

import (
	"errors"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/backend"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/usercontext"
	"github.com/driversheet/driversheet-web/internal/pkg/viewmodel"
	"github.com/driversheet/driversheet-web/views"
	dashboard_views "github.com/driversheet/driversheet-web/views/dashboard"
)

var errAccountNotLinked = errors.New("session is not linked to a backend account yet")

type DashboardController struct {
	logs backend.LogFetcher
}

var dashboardController *DashboardController

func InitializeDashboardController(logs backend.LogFetcher) {
	dashboardController = &DashboardController{logs: logs}
}

// HandleDashboard renders the page shell; the logs section loads itself.
func HandleDashboard(c *fiber.Ctx) error {
	s := usercontext.Get(c)
	vm := viewmodel.NewDashboard(newLayout(c, "dashboard", "Dashboard"), s, site.Now())

	placeholder, err := templ.ToGoHTML(c.UserContext(), dashboard_views.Logs(viewmodel.LoadingLogs(vm.LogsURL)))
	if err != nil {
		return err
	}
	vm.LogsPlaceholder = placeholder
	return renderPage(c, views.PageDashboard, vm)
}

// HandleDashboardLogs renders the stats and table, or the payment prompt,
// or a generic error.
func HandleDashboardLogs(c *fiber.Ctx) error {
	s := usercontext.Get(c)
	logs, err := dashboardController.fetch(c, s)
	if err != nil && !backend.IsPaymentRequired(err) {
		log.Errorw("failed to load logs", "account", s.ID, "error", err)
	}

	vm := viewmodel.NewDashboardLogs(logs, err, s, site.SupportEmail, site.Now())
	handler := adaptor.HTTPHandler(templ.Handler(dashboard_views.Logs(vm)))
	return handler(c)
}

func (dc *DashboardController) fetch(c *fiber.Ctx, s identity.Session) ([]models.LogEntry, error) {
	if !s.IsSynced() || s.ID == 0 {
		return nil, errAccountNotLinked
	}
	return dc.logs.FetchLogs(c.UserContext(), s.ID)
}
