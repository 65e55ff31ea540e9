// Package views holds the embedded page templates rendered by the fiber
// html engine. HTMX fragments are templ components in the subpackages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

const (
	MainLayout    = "layouts/main"
	PageLanding   = "pages/landing"
	PageAuth      = "pages/auth"
	PageDashboard = "pages/dashboard"
	PageError     = "pages/error"
)

//go:embed layouts pages
var pageFS embed.FS

// NewEngine returns the html engine for full pages. With reload set the
// templates are parsed on every render.
func NewEngine(reload bool) *html.Engine {
	engine := html.NewFileSystem(http.FS(pageFS), ".html")
	engine.Reload(reload)
	return engine
}
