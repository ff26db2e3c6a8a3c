// Package app is the composition root: it wires config, gateway, service,
// session, and the HTTP router into one Application. Bootstrap stays
// orchestration-only; behavior lives in the packages it composes.
package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"invest-console.io/console/internal/api/handlers"
	"invest-console.io/console/internal/api/middleware"
	"invest-console.io/console/internal/config"
	"invest-console.io/console/internal/domain"
	"invest-console.io/console/internal/gateway"
	"invest-console.io/console/internal/pkg/logger"
	"invest-console.io/console/internal/pkg/worker"
	"invest-console.io/console/internal/service"
	"invest-console.io/console/internal/session"
)

// Application holds composed application dependencies.
type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Pools   *worker.Pools
	Session *session.Session
}

// Bootstrap initializes all dependencies using manual DI.
func Bootstrap(cfg *config.Config) (*Application, error) {
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pools, err := worker.NewPools(worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		GatewayPoolSize: cfg.Worker.GatewayPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	sess := session.New()
	sess.Init(session.Principal{UserID: "console"}, gatewayToken(cfg), time.Time{})

	gw, err := newGateway(cfg, sess)
	if err != nil {
		pools.Shutdown()
		return nil, err
	}

	dispatcher := domain.NewEventDispatcher()
	registerObservers(dispatcher)

	portfolio := service.NewPortfolioService(gw, pools, dispatcher)

	jwtCfg := middleware.JWTConfig{
		SigningKey: []byte(cfg.Auth.JWTSecret),
		Issuer:     cfg.Auth.Issuer,
		ExpiresIn:  cfg.Auth.TokenTTL,
	}
	server := handlers.NewServer(handlers.Deps{
		JWTCfg:    jwtCfg,
		Users:     cfg.Users,
		Portfolio: portfolio,
		Session:   sess,
	})

	return &Application{
		Config:  cfg,
		Router:  newRouter(cfg, server, jwtCfg.SigningKey),
		Pools:   pools,
		Session: sess,
	}, nil
}

// gatewayToken returns the upstream credential to open the session with.
// Mock mode needs no real credential but the session must still be active.
func gatewayToken(cfg *config.Config) string {
	if cfg.Gateway.Token != "" {
		return cfg.Gateway.Token
	}
	if cfg.Gateway.Mode == config.GatewayModeMock {
		return "mock-token"
	}
	return ""
}

func newGateway(cfg *config.Config, sess *session.Session) (gateway.Client, error) {
	switch cfg.Gateway.Mode {
	case config.GatewayModeHTTP:
		return gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, sess), nil
	case config.GatewayModeMock:
		mock := gateway.NewMock()
		if cfg.Gateway.FixtureFile != "" {
			if err := mock.LoadFile(cfg.Gateway.FixtureFile); err != nil {
				return nil, fmt.Errorf("seed mock gateway: %w", err)
			}
		}
		return mock, nil
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", cfg.Gateway.Mode)
	}
}
