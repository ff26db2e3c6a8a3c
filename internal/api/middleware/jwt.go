package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/session"
)

// JWTClaims defines custom JWT claims for console session tokens.
type JWTClaims struct {
	Email            string       `json:"email"`
	Name             string       `json:"name"`
	Role             session.Role `json:"role"`
	PortfolioOwnerID string       `json:"portfolio_owner_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT signing configuration.
type JWTConfig struct {
	SigningKey []byte
	Issuer     string
	ExpiresIn  time.Duration
}

// GenerateToken creates a signed JWT for the given principal.
func GenerateToken(cfg JWTConfig, p session.Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(cfg.ExpiresIn)

	claims := JWTClaims{
		Email:            p.Email,
		Name:             p.Name,
		Role:             p.Role,
		PortfolioOwnerID: p.PortfolioOwnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.SigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a console token and returns its claims.
func ParseToken(signingKey []byte, tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized(apperrors.CodeTokenExpired, "token expired")
		}
		return nil, apperrors.Unauthorized(apperrors.CodeTokenInvalid, "invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized(apperrors.CodeTokenInvalid, "invalid token claims")
	}
	return claims, nil
}

// Principal converts the claims back into a session principal.
func (c *JWTClaims) Principal() session.Principal {
	return session.Principal{
		UserID:           c.Subject,
		Email:            c.Email,
		Name:             c.Name,
		Role:             c.Role,
		PortfolioOwnerID: c.PortfolioOwnerID,
	}
}

// JWTAuth validates Bearer tokens and populates the request context with the
// authenticated principal.
func JWTAuth(signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    apperrors.CodeTokenInvalid,
				"message": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    apperrors.CodeTokenInvalid,
				"message": "invalid authorization header format",
			})
			return
		}

		claims, err := ParseToken(signingKey, parts[1])
		if err != nil {
			appErr, _ := apperrors.IsAppError(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			})
			return
		}

		principal := claims.Principal()
		c.Set("principal", principal)
		c.Request = c.Request.WithContext(
			SetPrincipal(c.Request.Context(), principal),
		)

		c.Next()
	}
}
