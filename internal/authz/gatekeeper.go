package authz

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"repair-tracker/pkg/config"
	apperrors "repair-tracker/pkg/errors"
)

// Gatekeeper проверяет единственный общий ключ администратора.
// Ролей и сессий нет.
type Gatekeeper struct {
	keyDigest  [sha256.Size]byte
	hasKey     bool
	bcryptHash []byte
}

func NewGatekeeper(cfg config.AdminConfig) *Gatekeeper {
	g := &Gatekeeper{}
	if cfg.APIKeyHash != "" {
		g.bcryptHash = []byte(cfg.APIKeyHash)
	}
	if cfg.APIKey != "" {
		g.keyDigest = sha256.Sum256([]byte(cfg.APIKey))
		g.hasKey = true
	}
	return g
}

// Authorize без настроенного ключа всегда возвращает ErrAdminKeyNotConfigured.
//
// Открытый ключ сравнивается по SHA-256, поэтому сравнение всегда идет
// по 32 байтам независимо от длины входа.
func (g *Gatekeeper) Authorize(providedKey string) error {
	if !g.hasKey && g.bcryptHash == nil {
		return apperrors.ErrAdminKeyNotConfigured
	}
	if providedKey == "" {
		return apperrors.ErrInvalidAPIKey
	}

	if g.bcryptHash != nil {
		if bcrypt.CompareHashAndPassword(g.bcryptHash, []byte(providedKey)) == nil {
			return nil
		}
		if !g.hasKey {
			return apperrors.ErrInvalidAPIKey
		}
	}

	provided := sha256.Sum256([]byte(providedKey))
	if subtle.ConstantTimeCompare(provided[:], g.keyDigest[:]) != 1 {
		return apperrors.ErrInvalidAPIKey
	}
	return nil
}

// HashKey возвращает bcrypt-хеш для ADMIN_API_KEY_HASH.
func HashKey(key string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
