package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /api/v1/health. It reports the session token state so
// operators can see an expiring upstream credential before requests fail.
func (s *Server) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "ok"
	httpStatus := http.StatusOK

	if s.session.Token() == "" {
		checks["gateway_session"] = "closed"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	} else if exp := s.session.ExpiresAt(); !exp.IsZero() && time.Until(exp) < 5*time.Minute {
		checks["gateway_session"] = "expiring"
		status = "degraded"
	} else {
		checks["gateway_session"] = "ok"
	}

	c.JSON(httpStatus, gin.H{
		"status": status,
		"checks": checks,
	})
}
