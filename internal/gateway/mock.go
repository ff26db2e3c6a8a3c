package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"invest-console.io/console/internal/domain"
)

// Fixture is the on-disk seed format for the mock gateway.
type Fixture struct {
	Owners       []domain.PortfolioOwner   `json:"portfolio_owners"`
	SubMarketers []domain.SubMarketer      `json:"sub_marketers"`
	Investments  []domain.InvestmentRecord `json:"investments"`
}

// Mock implements Client against an in-memory data set. It runs the same
// transition rules the console does, so a mock-backed console behaves like
// a real deployment.
type Mock struct {
	mu           sync.RWMutex
	owners       []domain.PortfolioOwner
	subMarketers []domain.SubMarketer
	records      []domain.InvestmentRecord
	index        map[string]int
	failErr      error
}

// NewMock creates an empty mock gateway.
func NewMock() *Mock {
	return &Mock{index: make(map[string]int)}
}

// Seed replaces the mock's data set.
func (m *Mock) Seed(f Fixture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = append([]domain.PortfolioOwner(nil), f.Owners...)
	m.subMarketers = append([]domain.SubMarketer(nil), f.SubMarketers...)
	m.records = append([]domain.InvestmentRecord(nil), f.Investments...)
	m.index = make(map[string]int, len(m.records))
	for i, r := range m.records {
		m.index[r.InvestmentID] = i
	}
}

// LoadFile seeds the mock from a fixture JSON file (see cmd/seed).
func (m *Mock) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	m.Seed(f)
	return nil
}

// FailNext makes the next call return err, then clears it. Test hook for
// backend-failure paths.
func (m *Mock) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *Mock) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failErr
	m.failErr = nil
	return err
}

// PortfolioOwners implements Client.
func (m *Mock) PortfolioOwners(_ context.Context) ([]domain.PortfolioOwner, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.PortfolioOwner(nil), m.owners...), nil
}

// SubMarketers implements Client.
func (m *Mock) SubMarketers(_ context.Context, portfolioOwnerID string) ([]domain.SubMarketer, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SubMarketer
	for _, sm := range m.subMarketers {
		if sm.PortfolioOwnerID == portfolioOwnerID {
			out = append(out, sm)
		}
	}
	return out, nil
}

// OwnerInvestments implements Client.
func (m *Mock) OwnerInvestments(_ context.Context, portfolioOwnerID string) ([]domain.InvestmentRecord, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.InvestmentRecord
	for _, r := range m.records {
		if r.PortfolioOwnerID == portfolioOwnerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// SubMarketerInvestments implements Client.
func (m *Mock) SubMarketerInvestments(_ context.Context, subMarketerID string) ([]domain.InvestmentRecord, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.InvestmentRecord
	for _, r := range m.records {
		if r.SubMarketerID == subMarketerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// UpdateInvestmentStatus implements Client. The mock applies the same
// transition rules as the console core.
func (m *Mock) UpdateInvestmentStatus(_ context.Context, investmentID string, status domain.Status, amount decimal.Decimal) (domain.InvestmentRecord, error) {
	if err := m.takeFailure(); err != nil {
		return domain.InvestmentRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.index[investmentID]
	if !ok {
		return domain.InvestmentRecord{}, fmt.Errorf("investment %s not found", investmentID)
	}

	updated, _, err := domain.ApplyTransition(m.records[idx], status, &amount, "mock-backend", time.Now())
	if err != nil {
		return domain.InvestmentRecord{}, err
	}
	m.records[idx] = updated
	return updated, nil
}
