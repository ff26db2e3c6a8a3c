package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invest-console.io/console/internal/api/middleware"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/logger"
)

type reloadScopeRequest struct {
	SubMarketerID string `json:"sub_marketer_id"`
}

// ReloadScope handles POST /api/v1/scope. It resolves the caller's viewing
// scope (optionally narrowed to one sub-marketer) and refetches it from the
// backend, replacing the cached working set.
func (s *Server) ReloadScope(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.Error(apperrors.Unauthorized(apperrors.CodeTokenInvalid, "not authenticated"))
		return
	}

	var req reloadScopeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "malformed scope request"))
			return
		}
	}

	scope, err := s.portfolio.ScopeFor(c.Request.Context(), principal, req.SubMarketerID)
	if err != nil {
		c.Error(err)
		return
	}

	st, err := s.portfolio.Reload(c.Request.Context(), scope)
	if err != nil {
		c.Error(err)
		return
	}

	snapshot := st.Snapshot()
	logger.Info("scope reloaded",
		zap.String("scope", scope.Key()),
		zap.Int("records", snapshot.TotalRecords),
		zap.String("actor", principal.UserID),
	)
	c.JSON(http.StatusOK, gin.H{
		"scope":   scope.Key(),
		"summary": snapshot,
	})
}
