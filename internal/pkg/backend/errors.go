package backend

import (
	"errors"
	"fmt"
)

// ErrPaymentRequired is returned (wrapped in a *PaymentRequiredError) when
// the backend answers 402 for a log fetch.
var ErrPaymentRequired = errors.New("payment required")

// SyncError reports a failed identity upsert. Status is 0 for transport
// or decoding failures.
type SyncError struct {
	Status int
	Body   string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to sync user: status=%d body=%s", e.Status, e.Body)
	}
	return fmt.Sprintf("failed to sync user: %v", e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// PaymentRequiredError signals that log access is gated on billing state.
type PaymentRequiredError struct {
	AccountID int64
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("logs for account %d: %s", e.AccountID, ErrPaymentRequired)
}

func (e *PaymentRequiredError) Is(target error) bool {
	return target == ErrPaymentRequired
}

// FetchError is any log fetch failure other than payment required.
type FetchError struct {
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to load logs: status=%d body=%s", e.Status, e.Body)
	}
	return fmt.Sprintf("failed to load logs: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsPaymentRequired reports whether err carries the 402 signal.
func IsPaymentRequired(err error) bool {
	return errors.Is(err, ErrPaymentRequired)
}
