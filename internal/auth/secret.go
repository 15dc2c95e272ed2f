// Package auth implements the shared-secret gate that authorizes every
// content mutation. The secret is stored once in the blog_config table as
// a bcrypt hash; clients supply the plaintext with each mutating request.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ConfigKey is the blog_config row holding the shared secret.
const ConfigKey = "blog_secret"

// SecretSource reads stored configuration values; "" means no row exists.
type SecretSource interface {
	GetConfigValue(ctx context.Context, key string) (string, error)
}

type Gate struct {
	source    SecretSource
	jwtSecret []byte
}

func NewGate(source SecretSource, jwtSecret string) *Gate {
	return &Gate{source: source, jwtSecret: []byte(jwtSecret)}
}

// HashSecret returns the bcrypt hash persisted for the shared secret.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifySecret compares the candidate against the stored secret. A stored
// bcrypt hash is compared with bcrypt; a legacy plaintext row is compared
// in constant time. An empty candidate or unset secret never verifies.
func (g *Gate) VerifySecret(ctx context.Context, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}
	stored, err := g.source.GetConfigValue(ctx, ConfigKey)
	if err != nil {
		return false, err
	}
	if stored == "" {
		return false, nil
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}
