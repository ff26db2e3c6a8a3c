// Package service orchestrates viewing scopes: it decides which slice of
// the platform a principal may see, fetches it through the backend gateway,
// and hands out the store holding that working set.
package service

import (
	"context"
	"fmt"
	"sync"

	"invest-console.io/console/internal/domain"
	"invest-console.io/console/internal/gateway"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/metrics"
	"invest-console.io/console/internal/pkg/worker"
	"invest-console.io/console/internal/session"
	"invest-console.io/console/internal/store"
)

// ScopeKind classifies a viewing scope.
type ScopeKind string

const (
	// ScopePlatform covers every investment on the platform (admin only).
	ScopePlatform ScopeKind = "platform"
	// ScopeOwner covers one portfolio owner's investments.
	ScopeOwner ScopeKind = "owner"
	// ScopeSubMarketer covers one sub-marketer's investments.
	ScopeSubMarketer ScopeKind = "sub_marketer"
)

// Scope identifies one viewing scope. ID is empty for the platform scope.
type Scope struct {
	Kind ScopeKind
	ID   string
}

// Key returns the scope's stable string form.
func (s Scope) Key() string {
	if s.Kind == ScopePlatform {
		return string(ScopePlatform)
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// PortfolioService owns one store per loaded scope and the gateway fetches
// that fill them.
type PortfolioService struct {
	gw         gateway.Client
	pools      *worker.Pools
	dispatcher *domain.EventDispatcher

	mu     sync.Mutex
	stores map[string]*store.Store
}

// NewPortfolioService creates the service. pools may be nil; platform loads
// then fetch owners sequentially.
func NewPortfolioService(gw gateway.Client, pools *worker.Pools, dispatcher *domain.EventDispatcher) *PortfolioService {
	return &PortfolioService{
		gw:         gw,
		pools:      pools,
		dispatcher: dispatcher,
		stores:     make(map[string]*store.Store),
	}
}

// ScopeFor resolves the scope a principal is asking to view. Admins default
// to the platform scope; portfolio managers are pinned to their own owner
// account. A sub-marketer id narrows either default.
func (p *PortfolioService) ScopeFor(ctx context.Context, principal session.Principal, subMarketerID string) (Scope, error) {
	if subMarketerID == "" {
		if principal.Role == session.RoleAdmin {
			return Scope{Kind: ScopePlatform}, nil
		}
		return Scope{Kind: ScopeOwner, ID: principal.PortfolioOwnerID}, nil
	}

	if principal.Role != session.RoleAdmin {
		// A manager may only drill into sub-marketers they manage.
		ok, err := p.ownsSubMarketer(ctx, principal.PortfolioOwnerID, subMarketerID)
		if err != nil {
			return Scope{}, err
		}
		if !ok {
			return Scope{}, apperrors.Forbidden(apperrors.CodeForbidden, "sub-marketer belongs to another portfolio owner")
		}
	}
	return Scope{Kind: ScopeSubMarketer, ID: subMarketerID}, nil
}

func (p *PortfolioService) ownsSubMarketer(ctx context.Context, ownerID, subMarketerID string) (bool, error) {
	subMarketers, err := p.gw.SubMarketers(ctx, ownerID)
	if err != nil {
		return false, err
	}
	for _, sm := range subMarketers {
		if sm.SubMarketerID == subMarketerID {
			return true, nil
		}
	}
	return false, nil
}

// StoreFor returns the store for a scope, loading it from the gateway on
// first use.
func (p *PortfolioService) StoreFor(ctx context.Context, scope Scope) (*store.Store, error) {
	key := scope.Key()

	p.mu.Lock()
	s, ok := p.stores[key]
	p.mu.Unlock()
	if ok {
		return s, nil
	}
	return p.load(ctx, scope)
}

// Reload refetches a scope from the gateway, replacing its working set.
func (p *PortfolioService) Reload(ctx context.Context, scope Scope) (*store.Store, error) {
	return p.load(ctx, scope)
}

func (p *PortfolioService) load(ctx context.Context, scope Scope) (*store.Store, error) {
	records, err := p.fetch(ctx, scope)
	if err != nil {
		return nil, err
	}

	key := scope.Key()
	p.mu.Lock()
	s, ok := p.stores[key]
	if !ok {
		s = store.New(gateway.StatusCommitter{Client: p.gw}, p.dispatcher)
		p.stores[key] = s
	}
	p.mu.Unlock()

	s.LoadScope(ctx, key, records)
	metrics.ScopeLoadsTotal.WithLabelValues(string(scope.Kind)).Inc()
	return s, nil
}

func (p *PortfolioService) fetch(ctx context.Context, scope Scope) ([]domain.InvestmentRecord, error) {
	switch scope.Kind {
	case ScopeOwner:
		return p.gw.OwnerInvestments(ctx, scope.ID)
	case ScopeSubMarketer:
		return p.gw.SubMarketerInvestments(ctx, scope.ID)
	case ScopePlatform:
		return p.fetchPlatform(ctx)
	default:
		return nil, apperrors.BadRequest(apperrors.CodeInvalidRequest, "unknown scope kind")
	}
}

// fetchPlatform fans out one investments fetch per portfolio owner through
// the gateway worker pool and merges the results in owner-list order.
func (p *PortfolioService) fetchPlatform(ctx context.Context) ([]domain.InvestmentRecord, error) {
	owners, err := p.gw.PortfolioOwners(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]domain.InvestmentRecord, len(owners))
	errs := make([]error, len(owners))

	if p.pools == nil {
		for i, owner := range owners {
			results[i], errs[i] = p.gw.OwnerInvestments(ctx, owner.PortfolioOwnerID)
		}
	} else {
		// A cancelled context can skip a queued task, so completion is
		// tracked on a buffered channel rather than a WaitGroup.
		done := make(chan struct{}, len(owners))
		for i, owner := range owners {
			i, owner := i, owner
			submitErr := p.pools.Gateway.Submit(ctx, func(ctx context.Context) {
				results[i], errs[i] = p.gw.OwnerInvestments(ctx, owner.PortfolioOwnerID)
				done <- struct{}{}
			})
			if submitErr != nil {
				errs[i] = submitErr
				done <- struct{}{}
			}
		}
		for range owners {
			select {
			case <-done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	var merged []domain.InvestmentRecord
	for i := range owners {
		if errs[i] != nil {
			return nil, errs[i]
		}
		merged = append(merged, results[i]...)
	}
	return merged, nil
}

// SubMarketers lists a portfolio owner's sub-marketers.
func (p *PortfolioService) SubMarketers(ctx context.Context, ownerID string) ([]domain.SubMarketer, error) {
	return p.gw.SubMarketers(ctx, ownerID)
}

// PortfolioOwners lists every portfolio owner (admin views).
func (p *PortfolioService) PortfolioOwners(ctx context.Context) ([]domain.PortfolioOwner, error) {
	return p.gw.PortfolioOwners(ctx)
}
