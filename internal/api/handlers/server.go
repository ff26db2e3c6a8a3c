// Package handlers implements the console's HTTP API. Handlers resolve the
// caller's viewing scope from the JWT principal, read from the scope's store,
// and report failures through the centralized error middleware via c.Error.
package handlers

import (
	"invest-console.io/console/internal/api/middleware"
	"invest-console.io/console/internal/config"
	"invest-console.io/console/internal/service"
	"invest-console.io/console/internal/session"
)

// Server holds all API handler dependencies.
type Server struct {
	jwtCfg    middleware.JWTConfig
	users     []config.UserConfig
	portfolio *service.PortfolioService
	session   *session.Session
}

// Deps holds everything needed to build a Server. Manual DI, no framework.
type Deps struct {
	JWTCfg    middleware.JWTConfig
	Users     []config.UserConfig
	Portfolio *service.PortfolioService
	Session   *session.Session
}

// NewServer creates a Server with all dependencies.
func NewServer(deps Deps) *Server {
	return &Server{
		jwtCfg:    deps.JWTCfg,
		users:     deps.Users,
		portfolio: deps.Portfolio,
		session:   deps.Session,
	}
}
