package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/apidocs"
	"github.com/driversheet/driversheet-web/internal/pkg/backend"
	"github.com/driversheet/driversheet-web/internal/pkg/billing"
	"github.com/driversheet/driversheet-web/internal/pkg/dashboard"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/session"
	"github.com/driversheet/driversheet-web/internal/pkg/usercontext"
)

type APISessionController struct {
	provider *identity.Provider
	logs     backend.LogFetcher
	docs     *apidocs.Document
}

var apiSessionController *APISessionController

// InitializeAPISessionController wires the session API. docs may be nil, in
// which case request bodies are only decoded, not schema-validated.
func InitializeAPISessionController(provider *identity.Provider, logs backend.LogFetcher, docs *apidocs.Document) {
	apiSessionController = &APISessionController{provider: provider, logs: logs, docs: docs}
}

type sessionResponse struct {
	identity.Session
	TrialDaysRemaining *int `json:"trialDaysRemaining"`
}

func newSessionResponse(s identity.Session) sessionResponse {
	return sessionResponse{
		Session:            s,
		TrialDaysRemaining: billing.RemainingTrialDays(s.Created, s.Paid, site.Now()),
	}
}

type logsResponse struct {
	Logs  []models.LogEntry `json:"logs"`
	Stats dashboard.Stats   `json:"stats"`
}

func HandleAPIGetSession(c *fiber.Ctx) error {
	return c.JSON(newSessionResponse(usercontext.Get(c)))
}

// HandleAPIPatchSession merges a partial account update into the cached
// session without calling the backend.
func HandleAPIPatchSession(c *fiber.Ctx) error {
	ac := apiSessionController
	body := c.Body()
	if ac.docs != nil {
		if err := ac.docs.ValidateRequestBody(fiber.MethodPatch, "/session", body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
	}

	var patch identity.AccountPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid JSON body")
	}
	if patch.IsEmpty() {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "nothing to update")
	}
	if patch.SheetID != nil {
		id := dashboard.NormalizeSheetID(*patch.SheetID)
		patch.SheetID = &id
	}

	tok, err := session.LoadToken(c)
	if err != nil {
		log.Errorw("failed to load session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "session unavailable")
	}
	tok = ac.provider.Refresh(c.UserContext(), tok, identity.ExplicitUpdate{Patch: patch})
	if err := session.SaveToken(c, tok); err != nil {
		log.Errorw("failed to save session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "session unavailable")
	}

	s := tok.Session()
	usercontext.Set(c, s)
	return c.JSON(newSessionResponse(s))
}

func HandleAPIGetLogs(c *fiber.Ctx) error {
	logs, ok, err := apiSessionController.fetch(c)
	if !ok {
		return err
	}
	return c.JSON(logsResponse{Logs: logs, Stats: dashboard.Summarize(logs)})
}

func HandleAPIGetLogsCSV(c *fiber.Ctx) error {
	logs, ok, err := apiSessionController.fetch(c)
	if !ok {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(dashboard.CSVFilename(site.Now()))
	return c.Send(dashboard.CSV(logs))
}

// fetch loads the logs for the signed-in account. When ok is false the
// error response has already been written and err is what the handler
// should return.
func (ac *APISessionController) fetch(c *fiber.Ctx) ([]models.LogEntry, bool, error) {
	s := usercontext.Get(c)
	if !s.IsSynced() || s.ID == 0 {
		return nil, false, jsonError(c, fiber.StatusConflict, "not_synced", errAccountNotLinked.Error())
	}

	logs, err := ac.logs.FetchLogs(c.UserContext(), s.ID)
	switch {
	case err == nil:
		return logs, true, nil
	case backend.IsPaymentRequired(err):
		return nil, false, c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":           "payment_required",
			"message":         "trial expired, upgrade to continue",
			"lemonPaymentUrl": s.PaymentURL,
		})
	default:
		log.Errorw("failed to load logs", "account", s.ID, "error", err)
		return nil, false, jsonError(c, fiber.StatusBadGateway, "bad_gateway", "could not load logs")
	}
}
