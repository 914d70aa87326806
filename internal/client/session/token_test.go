package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.WithinDuration(t, exp, got, time.Second)
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}

func TestStore_ExpiresAt(t *testing.T) {
	s := NewStore(nil)
	_, ok := s.ExpiresAt()
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour)
	s.SetAuth(signedToken(t, exp), voter(), false)

	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.WithinDuration(t, exp, got, time.Second)
}
