package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/hkdf"
)

const keySize = 32

// Keys are derived from SESSION_SECRET so one secret drives both the token
// signature and the cookie encryption without the two ever sharing bytes.
type Keys struct {
	TokenSigning []byte
	Cookie       []byte
}

// CookieKey returns the cookie key in the base64 form encryptcookie expects.
func (k Keys) CookieKey() string {
	return base64.StdEncoding.EncodeToString(k.Cookie)
}

// DeriveKeys expands secret into purpose-bound keys. An empty secret yields
// random keys, which invalidates every session on restart.
func DeriveKeys(secret string) (Keys, error) {
	master := []byte(secret)
	if len(master) == 0 {
		log.Warn("SESSION_SECRET is not set, using a random secret; sessions will not survive a restart")
		master = make([]byte, keySize)
		if _, err := rand.Read(master); err != nil {
			return Keys{}, fmt.Errorf("generate session secret: %w", err)
		}
	}

	signing, err := expand(master, "driversheet session token")
	if err != nil {
		return Keys{}, err
	}
	cookie, err := expand(master, "driversheet cookie encryption")
	if err != nil {
		return Keys{}, err
	}
	return Keys{TokenSigning: signing, Cookie: cookie}, nil
}

func expand(master []byte, info string) ([]byte, error) {
	if info == "" {
		return nil, errors.New("key info is required")
	}
	out := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return out, nil
}
