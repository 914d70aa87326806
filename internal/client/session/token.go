package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the expiry claim from an access token without
// verifying its signature. The token is opaque as far as flows are
// concerned; this is only used to hint the UI when a refresh is due.
// Returns false for non-JWT tokens or tokens without an exp claim.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiresAt reports when the current session token expires, if that can be
// determined.
func (s *Store) ExpiresAt() (time.Time, bool) {
	return TokenExpiry(s.Token())
}
