// Package backend is the HTTP client for the DriverSheet backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/driversheet/driversheet-web/app/models"
	"github.com/driversheet/driversheet-web/internal/pkg/config"
)

const (
	maxErrorBody = 1 << 20
	maxLogsBody  = 4 << 20
)

// UpsertRequest is the body of POST /api/users.
type UpsertRequest struct {
	GoogleID string  `json:"googleId"`
	Email    string  `json:"email"`
	SheetID  *string `json:"sheetId,omitempty"`
}

// IdentitySyncer creates or updates the backend account for an identity.
type IdentitySyncer interface {
	UpsertIdentity(ctx context.Context, req UpsertRequest) (*models.Account, error)
}

// LogFetcher loads the earnings log of an account.
type LogFetcher interface {
	FetchLogs(ctx context.Context, accountID int64) ([]models.LogEntry, error)
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func NewClientFromConfig(cfg *config.Config) *Client {
	return NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)
}

// UpsertIdentity is idempotent; callers may invoke it on every sign-in.
// Every failure is reported as a *SyncError.
func (c *Client) UpsertIdentity(ctx context.Context, in UpsertRequest) (*models.Account, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, &SyncError{Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/users", bytes.NewReader(payload))
	if err != nil {
		return nil, &SyncError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &SyncError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SyncError{Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var account models.Account
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&account); err != nil {
		return nil, &SyncError{Err: fmt.Errorf("decode account: %w", err)}
	}
	if err := account.Validate(); err != nil {
		return nil, &SyncError{Err: fmt.Errorf("invalid account payload: %w", err)}
	}
	return &account, nil
}

// FetchLogs returns the entries in backend order. A 402 yields a
// *PaymentRequiredError, anything else non-2xx a *FetchError.
func (c *Client) FetchLogs(ctx context.Context, accountID int64) ([]models.LogEntry, error) {
	path := "/api/users/" + strconv.FormatInt(accountID, 10) + "/logs"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &PaymentRequiredError{AccountID: accountID}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	logs := []models.LogEntry{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxLogsBody)).Decode(&logs); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode logs: %w", err)}
	}
	if logs == nil {
		logs = []models.LogEntry{}
	}
	return logs, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

func readBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(body))
}
