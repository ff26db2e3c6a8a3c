package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invest-console.io/console/internal/domain"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/logger"
)

// ListPortfolioOwners handles GET /api/v1/portfolio-owners (admin only).
func (s *Server) ListPortfolioOwners(c *gin.Context) {
	owners, err := s.portfolio.PortfolioOwners(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if owners == nil {
		owners = []domain.PortfolioOwner{}
	}
	c.JSON(http.StatusOK, gin.H{"portfolio_owners": owners})
}

type refreshTokenRequest struct {
	Token     string    `json:"token" binding:"required"`
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// RefreshGatewayToken handles POST /api/v1/admin/gateway-token (admin only).
// It rotates the upstream credential the console presents to the backend.
func (s *Server) RefreshGatewayToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "token and expires_at are required"))
		return
	}

	if err := s.session.Refresh(req.Token, req.ExpiresAt); err != nil {
		c.Error(err)
		return
	}

	logger.Info("gateway token rotated", zap.Time("expires_at", req.ExpiresAt))
	c.JSON(http.StatusOK, gin.H{"expires_at": req.ExpiresAt})
}
