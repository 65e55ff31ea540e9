package models

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Account is the backend user record as cached in the session token.
type Account struct {
	ID             int64   `json:"id" validate:"gt=0"`
	GoogleID       string  `json:"googleId" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	SheetID        *string `json:"sheetId"`
	ForwardAddress string  `json:"forwardAddress" validate:"required"`
	Paid           bool    `json:"paid"`
	Created        string  `json:"created"`
	TrialExpired   bool    `json:"trialExpired"`
	PaymentURL     string  `json:"lemonPaymentUrl" validate:"omitempty,url"`
}

// UnmarshalJSON accepts both camelCase and snake_case spellings of the
// identity and sheet keys; the upsert endpoint emits the latter.
func (a *Account) UnmarshalJSON(data []byte) error {
	type plain Account
	var raw struct {
		plain
		GoogleIDSnake *string `json:"google_id"`
		SheetIDSnake  *string `json:"sheet_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Account(raw.plain)
	if a.GoogleID == "" && raw.GoogleIDSnake != nil {
		a.GoogleID = *raw.GoogleIDSnake
	}
	if a.SheetID == nil && raw.SheetIDSnake != nil {
		a.SheetID = raw.SheetIDSnake
	}
	return nil
}

func (a *Account) Validate() error {
	v := validator.New()

	return v.Struct(a)
}
