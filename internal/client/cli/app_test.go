package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/secureballot/cli/internal/client/session"
)

func TestGetStatus(t *testing.T) {
	a := &App{store: session.NewStore(nil)}

	assert.Equal(t, "", a.getStatus())
	assert.False(t, a.isLoggedIn())

	a.store.SetAuth("tok", session.User{
		ID:    "u1",
		Role:  session.RoleVoter,
		Email: "amina@example.com",
	}, false)

	assert.Equal(t, "(amina@example.com voter)", a.getStatus())
	assert.True(t, a.isLoggedIn())
}
