package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"invest-console.io/console/internal/api/middleware"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/logger"
	"invest-console.io/console/internal/session"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt string            `json:"expires_at"`
	User      session.Principal `json:"user"`
}

// Login handles POST /api/v1/auth/login. Credentials are checked against
// the configured console users; a valid pair yields a signed session token.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "email and password are required"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var matched *session.Principal
	for _, u := range s.users {
		if strings.ToLower(u.Email) != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			break
		}
		matched = &session.Principal{
			UserID:           u.Email,
			Email:            u.Email,
			Name:             u.Name,
			Role:             session.Role(u.Role),
			PortfolioOwnerID: u.PortfolioOwnerID,
		}
		break
	}
	if matched == nil {
		logger.Warn("login failed: invalid credentials")
		c.Error(apperrors.Unauthorized(apperrors.CodeAuthFailed, "invalid email or password"))
		return
	}

	token, expiresAt, err := middleware.GenerateToken(s.jwtCfg, *matched)
	if err != nil {
		logger.Error("failed to generate token", zap.Error(err))
		c.Error(apperrors.Internal("INTERNAL_ERROR", "failed to generate token"))
		return
	}

	logger.Info("user logged in",
		zap.String("email", matched.Email),
		zap.String("role", string(matched.Role)),
	)
	c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      *matched,
	})
}

// Me handles GET /api/v1/auth/me, echoing the authenticated principal.
func (s *Server) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.Error(apperrors.Unauthorized(apperrors.CodeTokenInvalid, "not authenticated"))
		return
	}
	c.JSON(http.StatusOK, principal)
}
