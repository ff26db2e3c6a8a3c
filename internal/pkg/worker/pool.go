// Package worker provides goroutine pool management.
//
// All concurrency in the console goes through a pool with context
// propagation; naked goroutines are reserved for the HTTP server loop.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"invest-console.io/console/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Pools holds the console's worker pools: General for miscellaneous
// background work, Gateway for fan-out calls against the backend REST API.
type Pools struct {
	General *Pool
	Gateway *Pool
}

// PoolConfig contains worker pool sizes.
type PoolConfig struct {
	GeneralPoolSize int
	GatewayPoolSize int
}

// DefaultPoolConfig returns default configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		GeneralPoolSize: 50,
		GatewayPoolSize: 20,
	}
}

// NewPools creates the worker pool collection.
func NewPools(cfg PoolConfig) (*Pools, error) {
	panicHandler := func(p interface{}) {
		logger.Error("Worker panic recovered",
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}

	generalAnts, err := ants.NewPool(cfg.GeneralPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	gatewayAnts, err := ants.NewPool(cfg.GatewayPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(30*time.Second),
	)
	if err != nil {
		generalAnts.Release()
		return nil, err
	}

	return &Pools{
		General: &Pool{pool: generalAnts, name: "general"},
		Gateway: &Pool{pool: gatewayAnts, name: "gateway"},
	}, nil
}

// Submit submits a context-aware task.
// The task receives the caller's context and should check ctx.Done() at
// blocking points. If the context is already cancelled, returns ctx.Err()
// without submitting.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return p.pool.Submit(func() {
		// The context may have been cancelled while the task was queued.
		select {
		case <-ctx.Done():
			logger.Debug("Task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
}

// Shutdown gracefully releases the pools, waiting for running tasks.
func (p *Pools) Shutdown() {
	const shutdownTimeout = 30 * time.Second
	if err := p.General.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("General pool shutdown timeout", zap.Error(err))
	}
	if err := p.Gateway.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("Gateway pool shutdown timeout", zap.Error(err))
	}
}
