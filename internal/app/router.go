package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"invest-console.io/console/internal/api/handlers"
	"invest-console.io/console/internal/api/middleware"
	"invest-console.io/console/internal/config"
	"invest-console.io/console/internal/pkg/metrics"
	"invest-console.io/console/internal/session"
)

func newRouter(cfg *config.Config, server *handlers.Server, signingKey []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Metrics(), middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", server.Login)
	v1.GET("/health", server.Health)

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(signingKey))
	authed.GET("/auth/me", server.Me)
	authed.GET("/investments", server.ListInvestments)
	authed.GET("/investments/:id/status-updates", server.StatusUpdates)
	authed.PUT("/investments/:id/status", server.UpdateInvestmentStatus)
	authed.GET("/summary", server.Summary)
	authed.GET("/summary/rollup", server.SummaryRollup)
	authed.POST("/scope", server.ReloadScope)
	authed.GET("/portfolio-owners/:id/sub-marketers", server.ListSubMarketers)

	admin := authed.Group("")
	admin.Use(middleware.RequireRole(session.RoleAdmin))
	admin.GET("/portfolio-owners", server.ListPortfolioOwners)
	admin.POST("/admin/gateway-token", server.RefreshGatewayToken)

	return router
}
