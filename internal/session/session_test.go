package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Empty(t, s.Token())
	_, active := s.Principal()
	assert.False(t, active)

	expiry := time.Now().Add(time.Hour)
	s.Init(Principal{UserID: "u1", Email: "ops@example.com", Role: RoleAdmin}, "tok-1", expiry)

	assert.Equal(t, "tok-1", s.Token())
	p, active := s.Principal()
	assert.True(t, active)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.Equal(t, expiry, s.ExpiresAt())

	require.NoError(t, s.Refresh("tok-2", expiry.Add(time.Hour)))
	assert.Equal(t, "tok-2", s.Token())
	p, _ = s.Principal()
	assert.Equal(t, "u1", p.UserID, "refresh keeps the principal")

	s.Clear()
	assert.Empty(t, s.Token())
	_, active = s.Principal()
	assert.False(t, active)
}

func TestRefreshRequiresActiveSession(t *testing.T) {
	t.Parallel()

	s := New()
	err := s.Refresh("tok", time.Now().Add(time.Hour))
	require.Error(t, err)
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RolePortfolioManager.Valid())
	assert.False(t, Role("viewer").Valid())
}
