package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/driversheet/driversheet-web/internal/pkg/config"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
)

const (
	tokenKey = "session_token"

	// redis databases; the cache client itself uses DB 0
	SessionDB    = 1
	OAuthStateDB = 2
)

var (
	sessionStore *session.Store
	tokenCodec   *identity.Codec
)

// NewStorage returns the fiber storage for the given redis database, or nil
// when sessions are kept in memory (fiber falls back to its memory storage).
func NewStorage(cfg *config.Config, db int) fiber.Storage {
	if cfg.SessionStorage == "memory" {
		return nil
	}
	port, err := strconv.Atoi(cfg.CachePort)
	if err != nil {
		port = 6379
	}
	return redis.New(redis.Config{
		Host:     cfg.CacheHost,
		Port:     port,
		Password: cfg.CachePassword,
		Database: db,
		Reset:    false,
	})
}

func NewSessionStore(cfg *config.Config) *session.Store {
	sessionStore = session.New(session.Config{
		Storage:        NewStorage(cfg, SessionDB),
		CookieHTTPOnly: true,
		CookieSecure:   !cfg.IsDev(),
		CookieSameSite: "Lax",
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:session_id",
	})
	return sessionStore
}

// UseStore replaces the session store, mainly for tests.
func UseStore(s *session.Store) {
	sessionStore = s
}

func GetSessionStore() *session.Store {
	return sessionStore
}

func SetTokenCodec(c *identity.Codec) {
	tokenCodec = c
}

func ready() error {
	if sessionStore == nil {
		return errors.New("session store not initialized")
	}
	if tokenCodec == nil {
		return errors.New("session token codec not initialized")
	}
	return nil
}

// LoadToken returns the token stored in the caller's session. A missing,
// expired or tampered token yields the zero (unauthenticated) token.
func LoadToken(c *fiber.Ctx) (identity.Token, error) {
	if err := ready(); err != nil {
		return identity.Token{}, err
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return identity.Token{}, fmt.Errorf("failed to get session: %w", err)
	}

	raw, _ := sess.Get(tokenKey).(string)
	if raw == "" {
		return identity.Token{}, nil
	}
	tok, err := tokenCodec.Decode(raw)
	if err != nil {
		log.Warnw("discarding session token", "error", err)
		sess.Delete(tokenKey)
		if err := sess.Save(); err != nil {
			return identity.Token{}, fmt.Errorf("failed to save session: %w", err)
		}
		return identity.Token{}, nil
	}
	return tok, nil
}

// SaveToken stores tok in the caller's session.
func SaveToken(c *fiber.Ctx, tok identity.Token) error {
	return save(c, tok, false)
}

// StartSession stores tok under a fresh session id. Used after sign-in.
func StartSession(c *fiber.Ctx, tok identity.Token) error {
	return save(c, tok, true)
}

func save(c *fiber.Ctx, tok identity.Token, regenerate bool) error {
	if err := ready(); err != nil {
		return err
	}
	raw, err := tokenCodec.Encode(tok)
	if err != nil {
		return err
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if regenerate {
		if err := sess.Regenerate(); err != nil {
			return fmt.Errorf("failed to regenerate session: %w", err)
		}
	}
	sess.Set(tokenKey, raw)
	return sess.Save()
}

// Destroy removes the session and its token.
func Destroy(c *fiber.Ctx) error {
	if sessionStore == nil {
		return errors.New("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}
