package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-console.io/console/internal/gateway"
)

func TestDemoFixtureIsConsistent(t *testing.T) {
	t.Parallel()

	f := demoFixture()
	require.NotEmpty(t, f.Owners)
	require.NotEmpty(t, f.SubMarketers)
	require.Len(t, f.Investments, 12)

	ownerIDs := make(map[string]struct{})
	for _, o := range f.Owners {
		ownerIDs[o.PortfolioOwnerID] = struct{}{}
	}
	smOwners := make(map[string]string)
	for _, sm := range f.SubMarketers {
		_, ok := ownerIDs[sm.PortfolioOwnerID]
		assert.True(t, ok, "sub-marketer %s references unknown owner", sm.SubMarketerID)
		smOwners[sm.SubMarketerID] = sm.PortfolioOwnerID
	}

	seen := make(map[string]struct{})
	for _, r := range f.Investments {
		assert.True(t, r.Status.Valid(), "investment %s has invalid status", r.InvestmentID)
		assert.True(t, r.Amount.IsPositive())
		assert.Equal(t, smOwners[r.SubMarketerID], r.PortfolioOwnerID)
		_, dup := seen[r.InvestmentID]
		assert.False(t, dup, "duplicate investment id %s", r.InvestmentID)
		seen[r.InvestmentID] = struct{}{}
	}
}

func TestWriteFixtureRoundTrips(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, writeFixture(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var f gateway.Fixture
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Len(t, f.Investments, 12)

	// The mock gateway must accept the file as-is.
	mock := gateway.NewMock()
	require.NoError(t, mock.LoadFile(path))
}
