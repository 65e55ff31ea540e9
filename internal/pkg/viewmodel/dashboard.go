package viewmodel

import (
	"html/template"
	"time"

	"github.com/a-h/templ"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/billing"
	"github.com/driversheet/driversheet-web/internal/pkg/dashboard"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
)

// Dashboard is the page shell. The logs section is loaded separately.
type Dashboard struct {
	Layout
	Session     identity.Session
	Banner      billing.Banner
	ShowUpgrade bool
	SheetURL    string
	LogsURL     string
	// LogsPlaceholder is the loading state of the logs section, rendered
	// by the caller.
	LogsPlaceholder template.HTML
}

func NewDashboard(l Layout, s identity.Session, now time.Time) Dashboard {
	return Dashboard{
		Layout:      l,
		Session:     s,
		Banner:      billing.TrialBanner(billing.RemainingTrialDays(s.Created, s.Paid, now)),
		ShowUpgrade: billing.ShowUpgrade(s.PaymentURL, s.Paid),
		SheetURL:    dashboard.SheetURL(s.SheetID),
		LogsURL:     "/dash/logs",
	}
}

// DashboardLogs feeds the logs fragment.
type DashboardLogs struct {
	State        dashboard.State
	URL          string
	Stats        dashboard.Stats
	TotalGross   string
	TotalTips    string
	TotalMiles   string
	Rows         []dashboard.Row
	CSVHref      templ.SafeURL
	CSVFilename  string
	PaymentURL   string
	SupportEmail string
}

// LoadingLogs is the placeholder that fetches the fragment from url.
func LoadingLogs(url string) DashboardLogs {
	return DashboardLogs{State: dashboard.StateLoading, URL: url}
}

func NewDashboardLogs(logs []models.LogEntry, err error, s identity.Session, supportEmail string, now time.Time) DashboardLogs {
	vm := DashboardLogs{
		State:        dashboard.Classify(err),
		PaymentURL:   s.PaymentURL,
		SupportEmail: supportEmail,
	}
	if vm.State != dashboard.StateLoaded {
		return vm
	}

	vm.Stats = dashboard.Summarize(logs)
	vm.TotalGross = dashboard.Currency(vm.Stats.TotalGross)
	vm.TotalTips = dashboard.Currency(vm.Stats.TotalTips)
	vm.TotalMiles = dashboard.Miles(vm.Stats.TotalMiles)
	vm.Rows = dashboard.Rows(logs)
	if len(logs) > 0 {
		vm.CSVHref = templ.SafeURL(dashboard.DataURI(dashboard.CSV(logs)))
		vm.CSVFilename = dashboard.CSVFilename(now)
	}
	return vm
}

func (d DashboardLogs) Loading() bool         { return d.State == dashboard.StateLoading }
func (d DashboardLogs) PaymentRequired() bool { return d.State == dashboard.StatePaymentRequired }
func (d DashboardLogs) Failed() bool          { return d.State == dashboard.StateFailed }
func (d DashboardLogs) Loaded() bool          { return d.State == dashboard.StateLoaded }
func (d DashboardLogs) Empty() bool           { return len(d.Rows) == 0 }
