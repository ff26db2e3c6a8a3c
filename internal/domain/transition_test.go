package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "invest-console.io/console/internal/pkg/errors"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func baseRecord() InvestmentRecord {
	return InvestmentRecord{
		InvestmentID:     "inv1",
		InvestorID:       "investor-1",
		SubMarketerID:    "sm1",
		PortfolioOwnerID: "po1",
		Amount:           dec(50000),
		Status:           StatusOnHold,
		InvestedDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestApplyTransition(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		target     Status
		amount     *decimal.Decimal
		wantAmount decimal.Decimal
		wantCode   string
	}{
		{
			name:       "refunded with explicit amount",
			target:     StatusRefunded,
			amount:     decPtr(500),
			wantAmount: dec(500),
		},
		{
			name:       "ncd conversion with explicit amount",
			target:     StatusNcdConversion,
			amount:     decPtr(500),
			wantAmount: dec(500),
		},
		{
			name:       "on hold ignores requested amount",
			target:     StatusOnHold,
			amount:     decPtr(10),
			wantAmount: dec(50000),
		},
		{
			name:       "on hold without amount keeps current amount",
			target:     StatusOnHold,
			wantAmount: dec(50000),
		},
		{
			name:       "refunded allows zero amount",
			target:     StatusRefunded,
			amount:     decPtr(0),
			wantAmount: dec(0),
		},
		{
			name:     "refunded without amount rejected",
			target:   StatusRefunded,
			wantCode: apperrors.CodeInvalidAmount,
		},
		{
			name:     "ncd conversion without amount rejected",
			target:   StatusNcdConversion,
			wantCode: apperrors.CodeInvalidAmount,
		},
		{
			name:     "negative amount rejected",
			target:   StatusRefunded,
			amount:   decPtr(-5),
			wantCode: apperrors.CodeInvalidAmount,
		},
		{
			name:     "unknown status rejected",
			target:   Status("closed"),
			amount:   decPtr(100),
			wantCode: apperrors.CodeUnknownStatus,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			record := baseRecord()
			updated, event, err := ApplyTransition(record, tc.target, tc.amount, "admin@example.com", now)

			if tc.wantCode != "" {
				require.Error(t, err)
				appErr, ok := apperrors.IsAppError(err)
				require.True(t, ok)
				assert.Equal(t, tc.wantCode, appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.target, updated.Status)
			assert.True(t, tc.wantAmount.Equal(updated.Amount),
				"amount = %s, want %s", updated.Amount, tc.wantAmount)
			assert.Equal(t, now, updated.UpdatedAt)

			// Immutable fields survive untouched.
			assert.Equal(t, record.InvestmentID, updated.InvestmentID)
			assert.Equal(t, record.InvestorID, updated.InvestorID)
			assert.Equal(t, record.InvestedDate, updated.InvestedDate)

			// Exactly one audit event capturing before/after.
			assert.NotEmpty(t, event.UpdateID)
			assert.Equal(t, record.Status, event.PreviousStatus)
			assert.True(t, record.Amount.Equal(event.PreviousAmount))
			assert.Equal(t, tc.target, event.NewStatus)
			assert.True(t, tc.wantAmount.Equal(event.NewAmount))
			assert.Equal(t, "admin@example.com", event.UpdatedBy)
		})
	}
}

func TestApplyTransition_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	record := baseRecord()
	_, _, err := ApplyTransition(record, StatusRefunded, decPtr(1), "ops", time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusOnHold, record.Status)
	assert.True(t, dec(50000).Equal(record.Amount))
}

func TestApplyTransition_UpdatedAtMonotone(t *testing.T) {
	t.Parallel()

	record := baseRecord()
	record.UpdatedAt = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// Clock behind the record's last update: updated_at must not go back.
	skewed := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	updated, event, err := ApplyTransition(record, StatusRefunded, decPtr(100), "ops", skewed)
	require.NoError(t, err)

	assert.Equal(t, record.UpdatedAt, updated.UpdatedAt)
	assert.Equal(t, record.UpdatedAt, event.UpdatedAt)
}

func TestApplyTransition_AllPairsReachable(t *testing.T) {
	t.Parallel()

	// The status graph is deliberately flat: every ordered pair is legal.
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			record := baseRecord()
			record.Status = from
			updated, _, err := ApplyTransition(record, to, decPtr(100), "ops", time.Now())
			require.NoError(t, err, "transition %s -> %s", from, to)
			assert.Equal(t, to, updated.Status)
		}
	}
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, Status("pending").Valid())
	assert.False(t, Status("").Valid())
}
