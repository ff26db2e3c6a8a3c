// Package session replaces the original dashboard's ambient key-value auth
// storage with an explicit session object and an injected lifecycle:
// Init, Refresh, Clear. Components that need the upstream credential hold a
// reference to the session instead of reading global state.
package session

import (
	"sync"
	"time"

	apperrors "invest-console.io/console/internal/pkg/errors"
)

// Role is a console user role.
type Role string

const (
	RoleAdmin            Role = "admin"
	RolePortfolioManager Role = "portfolio_manager"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePortfolioManager
}

// Principal identifies a console user.
type Principal struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	// PortfolioOwnerID pins a portfolio manager to their owner account.
	// Empty for admins.
	PortfolioOwnerID string `json:"portfolio_owner_id,omitempty"`
}

// Session carries the upstream bearer token the gateway attaches to backend
// requests. Safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	principal Principal
	token     string
	expiresAt time.Time
	active    bool
}

// New creates an inactive session.
func New() *Session {
	return &Session{}
}

// Init activates the session with a principal and token.
func (s *Session) Init(p Principal, token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = p
	s.token = token
	s.expiresAt = expiresAt
	s.active = true
}

// Refresh replaces the token of an active session, keeping the principal.
func (s *Session) Refresh(token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return apperrors.Unauthorized(apperrors.CodeSessionClosed, "session is not active")
	}
	s.token = token
	s.expiresAt = expiresAt
	return nil
}

// Clear deactivates the session and drops the credential.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = Principal{}
	s.token = ""
	s.expiresAt = time.Time{}
	s.active = false
}

// Token returns the current bearer token; empty when inactive. Implements
// gateway.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return ""
	}
	return s.token
}

// Principal returns the session's principal and whether it is active.
func (s *Session) Principal() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal, s.active
}

// ExpiresAt returns the token expiry; zero when inactive.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}
