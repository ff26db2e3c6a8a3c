package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/session"
)

// PrincipalFrom returns the authenticated principal stored by JWTAuth.
func PrincipalFrom(c *gin.Context) (session.Principal, bool) {
	v, exists := c.Get("principal")
	if !exists {
		return session.Principal{}, false
	}
	p, ok := v.(session.Principal)
	return p, ok
}

// RequireRole checks that the authenticated user holds the given role.
// Admins pass every role check.
func RequireRole(role session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": apperrors.CodeForbidden, "message": "no principal in context",
			})
			return
		}

		if p.Role == session.RoleAdmin || p.Role == role {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code": apperrors.CodeForbidden, "message": "insufficient role",
		})
	}
}
