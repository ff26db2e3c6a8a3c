// Package gateway is the console's client for the upstream investment REST
// backend. The HTTP implementation talks to the real service; the mock
// serves a seedable in-memory copy so the console runs without a backend.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"invest-console.io/console/internal/domain"
)

// Client is the backend REST contract the console consumes.
type Client interface {
	// PortfolioOwners lists every portfolio owner on the platform.
	PortfolioOwners(ctx context.Context) ([]domain.PortfolioOwner, error)

	// SubMarketers lists the sub-marketers managed by one portfolio owner.
	SubMarketers(ctx context.Context, portfolioOwnerID string) ([]domain.SubMarketer, error)

	// OwnerInvestments lists investments originated under one portfolio owner.
	OwnerInvestments(ctx context.Context, portfolioOwnerID string) ([]domain.InvestmentRecord, error)

	// SubMarketerInvestments lists investments originated by one sub-marketer.
	SubMarketerInvestments(ctx context.Context, subMarketerID string) ([]domain.InvestmentRecord, error)

	// UpdateInvestmentStatus is the single write operation: it persists a
	// status transition and returns the record as the backend now sees it.
	UpdateInvestmentStatus(ctx context.Context, investmentID string, status domain.Status, amount decimal.Decimal) (domain.InvestmentRecord, error)
}

// TokenSource supplies the bearer token attached to every backend request.
// The session object implements it. An empty token is not an error at this
// layer; the backend decides.
type TokenSource interface {
	Token() string
}

// StatusCommitter adapts a Client to the store's Committer interface.
type StatusCommitter struct {
	Client Client
}

// CommitStatus persists the transition upstream, discarding the echoed record.
func (c StatusCommitter) CommitStatus(ctx context.Context, investmentID string, status domain.Status, amount decimal.Decimal) error {
	_, err := c.Client.UpdateInvestmentStatus(ctx, investmentID, status, amount)
	return err
}
