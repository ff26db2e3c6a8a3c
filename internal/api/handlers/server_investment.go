package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"invest-console.io/console/internal/api/middleware"
	"invest-console.io/console/internal/domain"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/logger"
	"invest-console.io/console/internal/pkg/metrics"
)

// Amount is kept raw so a malformed value gets the amount-specific
// validation error instead of a generic bind failure.
type updateStatusRequest struct {
	Status domain.Status   `json:"status" binding:"required"`
	Amount json.RawMessage `json:"amount"`
}

// UpdateInvestmentStatus handles PUT /api/v1/investments/:id/status. The
// transition is validated, committed to the backend, then applied to the
// caller's scope.
func (s *Server) UpdateInvestmentStatus(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.Error(apperrors.Unauthorized(apperrors.CodeTokenInvalid, "not authenticated"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "status is required"))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	st, err := s.scopedStore(c)
	if err != nil {
		c.Error(err)
		return
	}

	investmentID := c.Param("id")
	updated, err := st.RequestTransition(c.Request.Context(), investmentID, req.Status, amount, principal.UserID)
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(req.Status), transitionOutcome(err)).Inc()
		c.Error(err)
		return
	}
	metrics.TransitionsTotal.WithLabelValues(string(req.Status), "accepted").Inc()

	logger.Info("investment status updated",
		zap.String("investment_id", investmentID),
		zap.String("status", string(req.Status)),
		zap.String("actor", principal.UserID),
	)
	c.JSON(http.StatusOK, updated)
}

// parseAmount decodes the optional amount field. Absent and null both mean
// "no amount supplied"; anything present must decode as a decimal.
func parseAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, apperrors.ErrInvalidAmountf("amount must be a number")
	}
	return &d, nil
}

// transitionOutcome classifies a failed transition for the metrics label.
func transitionOutcome(err error) string {
	if errors.Is(err, apperrors.ErrBackend) {
		return "backend_failed"
	}
	return "rejected"
}
