package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "driversheet-web"

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	Email          string  `json:"email,omitempty"`
	UserID         int64   `json:"userId,omitempty"`
	GoogleID       string  `json:"googleId,omitempty"`
	ForwardAddress string  `json:"forwardAddress,omitempty"`
	SheetID        *string `json:"sheetId,omitempty"`
	Paid           bool    `json:"paid,omitempty"`
	TrialExpired   bool    `json:"trialExpired,omitempty"`
	PaymentURL     string  `json:"lemonPaymentUrl,omitempty"`
	Created        string  `json:"created,omitempty"`
	Synced         bool    `json:"synced,omitempty"`
	RefreshedAt    int64   `json:"rat,omitempty"`
	LastSync       int64   `json:"lsa,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs tokens as HS256 JWTs so the stored session value cannot be
// altered outside this process.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewCodec(key []byte, ttl time.Duration) *Codec {
	return &Codec{key: key, ttl: ttl, now: time.Now}
}

func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Codec) Encode(t Token) (string, error) {
	if !t.IsAuthenticated() {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	issued := t.IssuedAt
	if issued.IsZero() {
		issued = c.now()
	}
	cl := claims{
		Email:          t.Email,
		UserID:         t.UserID,
		GoogleID:       t.GoogleID,
		ForwardAddress: t.ForwardAddress,
		SheetID:        t.SheetID,
		Paid:           t.Paid,
		TrialExpired:   t.TrialExpired,
		PaymentURL:     t.PaymentURL,
		Created:        t.Created,
		Synced:         t.Synced,
		RefreshedAt:    unix(t.RefreshedAt),
		LastSync:       unix(t.LastSyncAttempt),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   t.Subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(c.now().Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.key)
}

func (c *Codec) Decode(raw string) (Token, error) {
	var cl claims
	token, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || cl.Subject == "" {
		return Token{}, ErrInvalidToken
	}

	t := Token{
		Subject:         cl.Subject,
		Email:           cl.Email,
		UserID:          cl.UserID,
		GoogleID:        cl.GoogleID,
		ForwardAddress:  cl.ForwardAddress,
		SheetID:         cl.SheetID,
		Paid:            cl.Paid,
		TrialExpired:    cl.TrialExpired,
		PaymentURL:      cl.PaymentURL,
		Created:         cl.Created,
		Synced:          cl.Synced,
		RefreshedAt:     fromUnix(cl.RefreshedAt),
		LastSyncAttempt: fromUnix(cl.LastSync),
	}
	if cl.IssuedAt != nil {
		t.IssuedAt = cl.IssuedAt.Time
	}
	return t, nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0)
}
