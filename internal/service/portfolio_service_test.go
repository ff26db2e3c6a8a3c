package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-console.io/console/internal/domain"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/worker"
	"invest-console.io/console/internal/session"
)

type fakeGateway struct {
	mu sync.Mutex

	owners       []domain.PortfolioOwner
	subMarketers map[string][]domain.SubMarketer
	byOwner      map[string][]domain.InvestmentRecord
	bySub        map[string][]domain.InvestmentRecord

	ownerCalls []string
	failWith   error
}

func (f *fakeGateway) PortfolioOwners(ctx context.Context) ([]domain.PortfolioOwner, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.owners, nil
}

func (f *fakeGateway) SubMarketers(ctx context.Context, ownerID string) ([]domain.SubMarketer, error) {
	return f.subMarketers[ownerID], nil
}

func (f *fakeGateway) OwnerInvestments(ctx context.Context, ownerID string) ([]domain.InvestmentRecord, error) {
	f.mu.Lock()
	f.ownerCalls = append(f.ownerCalls, ownerID)
	f.mu.Unlock()
	return f.byOwner[ownerID], nil
}

func (f *fakeGateway) SubMarketerInvestments(ctx context.Context, subMarketerID string) ([]domain.InvestmentRecord, error) {
	return f.bySub[subMarketerID], nil
}

func (f *fakeGateway) UpdateInvestmentStatus(ctx context.Context, investmentID string, status domain.Status, amount decimal.Decimal) (domain.InvestmentRecord, error) {
	return domain.InvestmentRecord{}, nil
}

func record(id, owner string, amount int64) domain.InvestmentRecord {
	return domain.InvestmentRecord{
		InvestmentID: id,
		PortfolioOwnerID:     owner,
		Status:               domain.StatusOnHold,
		Amount:               decimal.NewFromInt(amount),
	}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		owners: []domain.PortfolioOwner{
			{PortfolioOwnerID: "po1", Name: "North Fund"},
			{PortfolioOwnerID: "po2", Name: "South Fund"},
		},
		subMarketers: map[string][]domain.SubMarketer{
			"po1": {{SubMarketerID: "sm1", PortfolioOwnerID: "po1", Name: "Alice"}},
			"po2": {{SubMarketerID: "sm2", PortfolioOwnerID: "po2", Name: "Bob"}},
		},
		byOwner: map[string][]domain.InvestmentRecord{
			"po1": {record("inv1", "po1", 1000), record("inv2", "po1", 2000)},
			"po2": {record("inv3", "po2", 3000)},
		},
		bySub: map[string][]domain.InvestmentRecord{
			"sm1": {record("inv1", "po1", 1000)},
		},
	}
}

func TestScopeKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "platform", Scope{Kind: ScopePlatform}.Key())
	assert.Equal(t, "owner:po1", Scope{Kind: ScopeOwner, ID: "po1"}.Key())
	assert.Equal(t, "sub_marketer:sm1", Scope{Kind: ScopeSubMarketer, ID: "sm1"}.Key())
}

func TestScopeForRoles(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	svc := NewPortfolioService(gw, nil, domain.NewEventDispatcher())

	admin := session.Principal{UserID: "u1", Role: session.RoleAdmin}
	manager := session.Principal{UserID: "u2", Role: session.RolePortfolioManager, PortfolioOwnerID: "po1"}

	scope, err := svc.ScopeFor(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, ScopePlatform, scope.Kind)

	scope, err = svc.ScopeFor(context.Background(), manager, "")
	require.NoError(t, err)
	assert.Equal(t, Scope{Kind: ScopeOwner, ID: "po1"}, scope)

	scope, err = svc.ScopeFor(context.Background(), manager, "sm1")
	require.NoError(t, err)
	assert.Equal(t, Scope{Kind: ScopeSubMarketer, ID: "sm1"}, scope)

	// Admins drill into any sub-marketer without an ownership check.
	scope, err = svc.ScopeFor(context.Background(), admin, "sm2")
	require.NoError(t, err)
	assert.Equal(t, Scope{Kind: ScopeSubMarketer, ID: "sm2"}, scope)
}

func TestScopeForForeignSubMarketer(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	svc := NewPortfolioService(gw, nil, domain.NewEventDispatcher())
	manager := session.Principal{UserID: "u2", Role: session.RolePortfolioManager, PortfolioOwnerID: "po1"}

	_, err := svc.ScopeFor(context.Background(), manager, "sm2")
	require.Error(t, err)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestStoreForLoadsLazilyAndCaches(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	svc := NewPortfolioService(gw, nil, domain.NewEventDispatcher())
	scope := Scope{Kind: ScopeOwner, ID: "po1"}

	s, err := svc.StoreFor(context.Background(), scope)
	require.NoError(t, err)
	assert.Len(t, s.Records(), 2)
	assert.Equal(t, "owner:po1", s.Scope())

	again, err := svc.StoreFor(context.Background(), scope)
	require.NoError(t, err)
	assert.Same(t, s, again)

	gw.mu.Lock()
	calls := len(gw.ownerCalls)
	gw.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestPlatformFanOutMergesInOwnerOrder(t *testing.T) {
	t.Parallel()

	pools, err := worker.NewPools(worker.PoolConfig{GeneralPoolSize: 4, GatewayPoolSize: 4})
	require.NoError(t, err)
	defer pools.Shutdown()

	gw := newFakeGateway()
	svc := NewPortfolioService(gw, pools, domain.NewEventDispatcher())

	s, err := svc.StoreFor(context.Background(), Scope{Kind: ScopePlatform})
	require.NoError(t, err)

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "inv1", records[0].InvestmentID)
	assert.Equal(t, "inv2", records[1].InvestmentID)
	assert.Equal(t, "inv3", records[2].InvestmentID)
}

func TestReloadReplacesWorkingSet(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	svc := NewPortfolioService(gw, nil, domain.NewEventDispatcher())
	scope := Scope{Kind: ScopeOwner, ID: "po2"}

	s, err := svc.StoreFor(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, s.Records(), 1)

	gw.byOwner["po2"] = append(gw.byOwner["po2"], record("inv4", "po2", 4000))
	reloaded, err := svc.Reload(context.Background(), scope)
	require.NoError(t, err)
	assert.Same(t, s, reloaded)
	assert.Len(t, s.Records(), 2)
}

func TestFetchGatewayFailureSurfaces(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	gw.failWith = apperrors.ErrBackendUnavailablef(context.DeadlineExceeded)
	svc := NewPortfolioService(gw, nil, domain.NewEventDispatcher())

	_, err := svc.StoreFor(context.Background(), Scope{Kind: ScopePlatform})
	require.Error(t, err)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeBackendUnavailable, appErr.Code)
}
