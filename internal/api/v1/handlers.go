package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/driversheet/driversheet-web/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetSession returns the cached session of the signed-in user.
func (s *APIServer) GetSession(c *fiber.Ctx) error {
	return controllers.HandleAPIGetSession(c)
}

// PatchSession merges a client-supplied partial account into the session.
func (s *APIServer) PatchSession(c *fiber.Ctx) error {
	return controllers.HandleAPIPatchSession(c)
}

func (s *APIServer) GetLogs(c *fiber.Ctx) error {
	return controllers.HandleAPIGetLogs(c)
}

// GetLogsCSV streams the same logs as GetLogs as a CSV attachment.
func (s *APIServer) GetLogsCSV(c *fiber.Ctx) error {
	return controllers.HandleAPIGetLogsCSV(c)
}
