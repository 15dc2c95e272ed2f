package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL matches the window the web client keeps its unlocked state.
const tokenTTL = 24 * time.Hour

// IssueToken mints an HS256 token a client can present instead of the
// plaintext secret. Returns "" when no signing key is configured.
func (g *Gate) IssueToken(now time.Time) (string, error) {
	if len(g.jwtSecret) == 0 {
		return "", nil
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"scope": "content",
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(g.jwtSecret)
}

// VerifyToken reports whether the token was issued by IssueToken and has
// not expired.
func (g *Gate) VerifyToken(tokenStr string) bool {
	if len(g.jwtSecret) == 0 || tokenStr == "" {
		return false
	}
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.jwtSecret, nil
	})
	return err == nil && token.Valid
}
