package identity

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/driversheet/driversheet-web/internal/pkg/backend"
)

// Cause is why a token is being (re)issued. Exactly one of InitialSignIn,
// PeriodicRefresh or ExplicitUpdate.
type Cause interface {
	isCause()
}

// InitialSignIn follows a completed OAuth callback.
type InitialSignIn struct {
	Profile Profile
}

// PeriodicRefresh happens when an existing session is read.
type PeriodicRefresh struct{}

// ExplicitUpdate is a client-initiated refresh carrying a patch.
type ExplicitUpdate struct {
	Patch AccountPatch
}

func (InitialSignIn) isCause()   {}
func (PeriodicRefresh) isCause() {}
func (ExplicitUpdate) isCause()  {}

// Transition is reported to observers whenever a refresh moves a token
// between states.
type Transition struct {
	From  State
	To    State
	Cause Cause
	Err   error
}

type Option func(*Provider)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithRetryAfter sets how long an unsynced token waits before a periodic
// refresh tries the backend again.
func WithRetryAfter(d time.Duration) Option {
	return func(p *Provider) { p.retryAfter = d }
}

func WithObserver(fn func(Transition)) Option {
	return func(p *Provider) { p.observe = fn }
}

// Provider issues and refreshes session tokens.
type Provider struct {
	syncer     backend.IdentitySyncer
	now        func() time.Time
	retryAfter time.Duration
	observe    func(Transition)
}

func NewProvider(syncer backend.IdentitySyncer, opts ...Option) *Provider {
	p := &Provider{
		syncer:     syncer,
		now:        time.Now,
		retryAfter: time.Minute,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Refresh returns the token that results from applying cause to tok. It
// never fails: a backend sync error leaves the token authenticated but
// unsynced.
func (p *Provider) Refresh(ctx context.Context, tok Token, cause Cause) Token {
	now := p.now()

	switch c := cause.(type) {
	case InitialSignIn:
		next := Token{
			Subject:  c.Profile.Subject,
			Email:    c.Profile.Email,
			IssuedAt: now,
		}
		// keep the cached account across re-sign-in of the same identity
		if tok.Subject != "" && tok.Subject == c.Profile.Subject {
			next = tok
			next.IssuedAt = now
			next.Synced = false
			if c.Profile.Email != "" {
				next.Email = c.Profile.Email
			}
		}
		next.RefreshedAt = now
		if next.Subject == "" || next.Email == "" {
			log.Warnw("sign-in without subject or email, skipping backend sync", "subject", next.Subject)
			return next
		}
		return p.sync(ctx, tok.State(), next, cause)

	case PeriodicRefresh:
		if !tok.IsAuthenticated() {
			return tok
		}
		tok.RefreshedAt = now
		if tok.Synced || tok.Email == "" {
			return tok
		}
		if !tok.LastSyncAttempt.IsZero() && now.Sub(tok.LastSyncAttempt) < p.retryAfter {
			return tok
		}
		return p.sync(ctx, tok.State(), tok, cause)

	case ExplicitUpdate:
		if !tok.IsAuthenticated() {
			return tok
		}
		tok.merge(c.Patch)
		tok.RefreshedAt = now
		return tok
	}

	return tok
}

// NeedsSync reports whether a periodic refresh would call the backend.
func (p *Provider) NeedsSync(tok Token) bool {
	if !tok.IsAuthenticated() || tok.Synced || tok.Email == "" {
		return false
	}
	return tok.LastSyncAttempt.IsZero() || p.now().Sub(tok.LastSyncAttempt) >= p.retryAfter
}

func (p *Provider) sync(ctx context.Context, from State, tok Token, cause Cause) Token {
	tok.syncing = true
	p.notify(Transition{From: from, To: tok.State(), Cause: cause})
	tok.LastSyncAttempt = p.now()

	account, err := p.syncer.UpsertIdentity(ctx, backend.UpsertRequest{
		GoogleID: tok.Subject,
		Email:    tok.Email,
	})
	tok.syncing = false
	if err != nil {
		log.Errorw("failed to sync user with backend", "subject", tok.Subject, "error", err)
		p.notify(Transition{From: StateSyncing, To: tok.State(), Cause: cause, Err: err})
		return tok
	}

	tok.apply(account)
	p.notify(Transition{From: StateSyncing, To: tok.State(), Cause: cause})
	return tok
}

func (p *Provider) notify(t Transition) {
	if p.observe != nil {
		p.observe(t)
	}
}
