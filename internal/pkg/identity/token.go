// Package identity holds the session token, the refresh state machine that
// keeps it in sync with the backend account, and the read-only session view
// handed to controllers.
package identity

import (
	"strings"
	"time"

	"github.com/driversheet/driversheet-web/app/models"
)

type State int

const (
	StateUnauthenticated State = iota
	StateSyncing
	StateSynced
	StateUnsynced
)

func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateSynced:
		return "authenticated-synced"
	case StateUnsynced:
		return "authenticated-unsynced"
	default:
		return "unauthenticated"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Profile is what the OAuth provider tells us about the signed-in user.
type Profile struct {
	Subject string
	Email   string
}

// Token is the per-session snapshot of the backend account. The zero value
// is an unauthenticated token.
type Token struct {
	Subject string
	Email   string

	UserID         int64
	GoogleID       string
	ForwardAddress string
	SheetID        *string
	Paid           bool
	TrialExpired   bool
	PaymentURL     string
	Created        string

	Synced          bool
	IssuedAt        time.Time
	RefreshedAt     time.Time
	LastSyncAttempt time.Time

	syncing bool
}

func (t Token) State() State {
	switch {
	case t.Subject == "":
		return StateUnauthenticated
	case t.syncing:
		return StateSyncing
	case t.Synced:
		return StateSynced
	default:
		return StateUnsynced
	}
}

func (t Token) IsAuthenticated() bool {
	return t.Subject != ""
}

// apply overwrites the cached account fields with a fresh backend copy.
func (t *Token) apply(a *models.Account) {
	t.UserID = a.ID
	t.GoogleID = a.GoogleID
	if a.Email != "" {
		t.Email = a.Email
	}
	t.ForwardAddress = a.ForwardAddress
	t.SheetID = copyString(a.SheetID)
	t.Paid = a.Paid
	t.TrialExpired = a.TrialExpired
	t.PaymentURL = a.PaymentURL
	t.Created = a.Created
	t.Synced = true
}

// AccountPatch is a partial account update supplied by the client. Nil
// fields leave the cached value untouched.
type AccountPatch struct {
	SheetID        *string `json:"sheetId,omitempty"`
	ForwardAddress *string `json:"forwardAddress,omitempty"`
	Paid           *bool   `json:"paid,omitempty"`
	TrialExpired   *bool   `json:"trialExpired,omitempty"`
	PaymentURL     *string `json:"lemonPaymentUrl,omitempty"`
}

func (p AccountPatch) IsEmpty() bool {
	return p.SheetID == nil && p.ForwardAddress == nil && p.Paid == nil &&
		p.TrialExpired == nil && p.PaymentURL == nil
}

// merge applies the patch. The forwarding address can only be filled in
// once, and Paid/TrialExpired never flip back to false.
func (t *Token) merge(p AccountPatch) {
	if p.SheetID != nil {
		if s := strings.TrimSpace(*p.SheetID); s == "" {
			t.SheetID = nil
		} else {
			t.SheetID = &s
		}
	}
	if p.ForwardAddress != nil && t.ForwardAddress == "" {
		t.ForwardAddress = strings.TrimSpace(*p.ForwardAddress)
	}
	if p.Paid != nil {
		t.Paid = t.Paid || *p.Paid
	}
	if p.TrialExpired != nil {
		t.TrialExpired = t.TrialExpired || *p.TrialExpired
	}
	if p.PaymentURL != nil {
		t.PaymentURL = strings.TrimSpace(*p.PaymentURL)
	}
}

// Session is the immutable per-request view of a token. Account fields are
// stale or zero valued while the token is unsynced.
type Session struct {
	State          State   `json:"state"`
	ID             int64   `json:"id"`
	GoogleID       string  `json:"googleId"`
	Email          string  `json:"email"`
	ForwardAddress string  `json:"forwardAddress"`
	SheetID        *string `json:"sheetId"`
	Paid           bool    `json:"paid"`
	TrialExpired   bool    `json:"trialExpired"`
	PaymentURL     string  `json:"lemonPaymentUrl"`
	Created        string  `json:"created"`
}

func (s Session) IsAuthenticated() bool {
	return s.State == StateSynced || s.State == StateUnsynced || s.State == StateSyncing
}

func (s Session) IsSynced() bool {
	return s.State == StateSynced
}

func (t Token) Session() Session {
	s := Session{State: t.State()}
	if !t.IsAuthenticated() {
		return s
	}
	s.ID = t.UserID
	s.GoogleID = t.GoogleID
	if s.GoogleID == "" {
		s.GoogleID = t.Subject
	}
	s.Email = t.Email
	s.ForwardAddress = t.ForwardAddress
	s.SheetID = copyString(t.SheetID)
	s.Paid = t.Paid
	s.TrialExpired = t.TrialExpired
	s.PaymentURL = t.PaymentURL
	s.Created = t.Created
	return s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
