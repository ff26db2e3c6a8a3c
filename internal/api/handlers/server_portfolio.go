package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invest-console.io/console/internal/analytics"
	"invest-console.io/console/internal/api/middleware"
	"invest-console.io/console/internal/domain"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/session"
	"invest-console.io/console/internal/store"
)

// ListSubMarketers handles GET /api/v1/portfolio-owners/:id/sub-marketers.
// Portfolio managers may only list their own owner account.
func (s *Server) ListSubMarketers(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.Error(apperrors.Unauthorized(apperrors.CodeTokenInvalid, "not authenticated"))
		return
	}

	ownerID := c.Param("id")
	if principal.Role != session.RoleAdmin && ownerID != principal.PortfolioOwnerID {
		c.Error(apperrors.Forbidden(apperrors.CodeForbidden, "cannot list another owner's sub-marketers"))
		return
	}

	subMarketers, err := s.portfolio.SubMarketers(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	if subMarketers == nil {
		subMarketers = []domain.SubMarketer{}
	}
	c.JSON(http.StatusOK, gin.H{"sub_marketers": subMarketers})
}

// ListInvestments handles GET /api/v1/investments. Query params: q narrows
// by investor name or email, status filters by status, sub_marketer_id
// narrows the scope to one sub-marketer.
func (s *Server) ListInvestments(c *gin.Context) {
	st, err := s.scopedStore(c)
	if err != nil {
		c.Error(err)
		return
	}

	records, err := st.FilterByStatus(c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}

	if q := c.Query("q"); q != "" {
		matched := st.Search(q)
		byID := make(map[string]struct{}, len(matched))
		for _, r := range matched {
			byID[r.InvestmentID] = struct{}{}
		}
		filtered := records[:0:0]
		for _, r := range records {
			if _, ok := byID[r.InvestmentID]; ok {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if records == nil {
		records = []domain.InvestmentRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"investments": records,
		"total":       len(records),
	})
}

// Summary handles GET /api/v1/summary, returning the aggregation snapshot
// for the caller's current scope.
func (s *Server) Summary(c *gin.Context) {
	st, err := s.scopedStore(c)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, st.Snapshot())
}

// SummaryRollup handles GET /api/v1/summary/rollup. The by query param
// picks the grouping: owner (default), sub_marketer, or status. Groups come
// back in first-seen record order with per-group totals and counts.
func (s *Server) SummaryRollup(c *gin.Context) {
	by := c.DefaultQuery("by", "owner")
	var keyFn func(domain.InvestmentRecord) string
	switch by {
	case "owner":
		keyFn = func(r domain.InvestmentRecord) string { return r.PortfolioOwnerID }
	case "sub_marketer":
		keyFn = func(r domain.InvestmentRecord) string { return r.SubMarketerID }
	case "status":
		keyFn = func(r domain.InvestmentRecord) string { return string(r.Status) }
	default:
		c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "by must be owner, sub_marketer or status"))
		return
	}

	st, err := s.scopedStore(c)
	if err != nil {
		c.Error(err)
		return
	}

	groups := analytics.RollupBy(st.Records(), keyFn)
	if groups == nil {
		groups = []analytics.Rollup{}
	}
	c.JSON(http.StatusOK, gin.H{
		"by":     by,
		"groups": groups,
	})
}

// StatusUpdates handles GET /api/v1/investments/:id/status-updates,
// returning the audit trail for one investment in this session.
func (s *Server) StatusUpdates(c *gin.Context) {
	st, err := s.scopedStore(c)
	if err != nil {
		c.Error(err)
		return
	}

	events := st.AuditLog(c.Param("id"))
	if events == nil {
		events = []domain.StatusUpdateEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"status_updates": events})
}

// scopedStore resolves the caller's scope from the principal and the
// optional sub_marketer_id query param, then returns its loaded store.
func (s *Server) scopedStore(c *gin.Context) (*store.Store, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, apperrors.Unauthorized(apperrors.CodeTokenInvalid, "not authenticated")
	}

	scope, err := s.portfolio.ScopeFor(c.Request.Context(), principal, c.Query("sub_marketer_id"))
	if err != nil {
		return nil, err
	}
	return s.portfolio.StoreFor(c.Request.Context(), scope)
}
