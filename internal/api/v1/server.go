// Package apiv1 binds the operations documented in
// public/docs/v1/openapi.yml to fiber routes.
package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong is the body of GET /ping.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /session)
	GetSession(c *fiber.Ctx) error
	// (PATCH /session)
	PatchSession(c *fiber.Ctx) error
	// (GET /logs)
	GetLogs(c *fiber.Ctx) error
	// (GET /logs.csv)
	GetLogsCSV(c *fiber.Ctx) error
}

// FiberServerOptions provides options for the Fiber server.
type FiberServerOptions struct {
	BaseURL     string
	Middlewares []MiddlewareFunc
	// Protected runs before every operation except GET /ping.
	Protected []MiddlewareFunc
}

type MiddlewareFunc fiber.Handler

// ServerInterfaceWrapper converts fiber contexts to handler calls.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (siw *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return siw.Handler.GetPing(c)
}

func (siw *ServerInterfaceWrapper) GetSession(c *fiber.Ctx) error {
	return siw.Handler.GetSession(c)
}

func (siw *ServerInterfaceWrapper) PatchSession(c *fiber.Ctx) error {
	return siw.Handler.PatchSession(c)
}

func (siw *ServerInterfaceWrapper) GetLogs(c *fiber.Ctx) error {
	return siw.Handler.GetLogs(c)
}

func (siw *ServerInterfaceWrapper) GetLogsCSV(c *fiber.Ctx) error {
	return siw.Handler.GetLogsCSV(c)
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	for _, m := range options.Middlewares {
		router.Use(fiber.Handler(m))
	}

	protected := make([]fiber.Handler, 0, len(options.Protected)+1)
	for _, m := range options.Protected {
		protected = append(protected, fiber.Handler(m))
	}
	with := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, protected...), h)
	}

	router.Get(options.BaseURL+"/ping", wrapper.GetPing)
	router.Get(options.BaseURL+"/session", with(wrapper.GetSession)...)
	router.Patch(options.BaseURL+"/session", with(wrapper.PatchSession)...)
	router.Get(options.BaseURL+"/logs", with(wrapper.GetLogs)...)
	router.Get(options.BaseURL+"/logs.csv", with(wrapper.GetLogsCSV)...)
}
