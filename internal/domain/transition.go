package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "invest-console.io/console/internal/pkg/errors"
)

// ApplyTransition decides whether moving record into target with the
// requested amount is legal and computes the result. The status graph is
// deliberately flat: any status may move to any other, including itself,
// with no terminal state (see DESIGN.md — candidate domain-rule fix, kept
// as observed).
//
// Amount handling by target:
//   - on_hold: the amount is forced to the record's current amount; a
//     requested value is ignored.
//   - refunded, ncd_conversion: amount is required and must be >= 0.
//
// Returns the updated record paired with the audit event capturing the
// before/after values. The input record is not mutated.
func ApplyTransition(record InvestmentRecord, target Status, amount *decimal.Decimal, actor string, now time.Time) (InvestmentRecord, StatusUpdateEvent, error) {
	if !target.Valid() {
		return InvestmentRecord{}, StatusUpdateEvent{}, apperrors.ErrUnknownStatusf(string(target))
	}

	newAmount := record.Amount
	if target.RequiresAmount() {
		if amount == nil {
			return InvestmentRecord{}, StatusUpdateEvent{}, apperrors.ErrInvalidAmountf("amount is required for target status " + string(target))
		}
		if amount.IsNegative() {
			return InvestmentRecord{}, StatusUpdateEvent{}, apperrors.ErrInvalidAmountf("amount must not be negative")
		}
		newAmount = *amount
	}

	// updated_at is monotonically non-decreasing even against a skewed clock.
	updatedAt := now
	if updatedAt.Before(record.UpdatedAt) {
		updatedAt = record.UpdatedAt
	}

	updated := record
	updated.Status = target
	updated.Amount = newAmount
	updated.UpdatedAt = updatedAt

	event := StatusUpdateEvent{
		UpdateID:       uuid.NewString(),
		InvestmentID:   record.InvestmentID,
		PreviousStatus: record.Status,
		PreviousAmount: record.Amount,
		NewStatus:      target,
		NewAmount:      newAmount,
		UpdatedBy:      actor,
		UpdatedAt:      updatedAt,
	}

	return updated, event, nil
}
