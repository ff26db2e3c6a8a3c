// Package domain holds the investment record model and the status
// transition rules. Everything in this package is side-effect free; the
// store owns persistence and observer notification.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers on the wire, matching the backend
	// contract, not as decimal's default quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Status is the lifecycle state of an investment.
type Status string

// Wire values come from the backend contract.
const (
	StatusOnHold        Status = "on_hold"
	StatusRefunded      Status = "refunded"
	StatusNcdConversion Status = "ncd_conversion"
)

// AllStatuses lists every recognized status in display order.
var AllStatuses = []Status{StatusOnHold, StatusRefunded, StatusNcdConversion}

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOnHold, StatusRefunded, StatusNcdConversion:
		return true
	}
	return false
}

// RequiresAmount reports whether a transition into s needs a caller-supplied
// amount. On-hold keeps the originally committed capital; refunds and NCD
// conversions settle at a possibly renegotiated figure.
func (s Status) RequiresAmount() bool {
	return s == StatusRefunded || s == StatusNcdConversion
}

// InvestmentRecord is one unit of capital placed by an investor through a
// sub-marketer under a portfolio owner. Relational keys and invested_date are
// immutable after creation; amount and status change only through
// ApplyTransition.
type InvestmentRecord struct {
	InvestmentID     string          `json:"investor_investment_id"`
	InvestorID       string          `json:"investor_id"`
	SubMarketerID    string          `json:"sub_marketer_id"`
	PortfolioOwnerID string          `json:"portfolio_owner_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           Status          `json:"status"`
	InvestedDate     time.Time       `json:"invested_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Denormalized display fields supplied by the backend join;
	// never written by the console.
	InvestorName       string `json:"investor_name,omitempty"`
	InvestorEmail      string `json:"investor_email,omitempty"`
	SubMarketerName    string `json:"sub_marketer_name,omitempty"`
	PortfolioOwnerName string `json:"portfolio_owner_name,omitempty"`
}

// StatusUpdateEvent is the immutable audit record of one accepted
// transition. Created exactly once per accepted transition.
type StatusUpdateEvent struct {
	UpdateID       string          `json:"update_id"`
	InvestmentID   string          `json:"investor_investment_id"`
	PreviousStatus Status          `json:"previous_status"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	NewStatus      Status          `json:"new_status"`
	NewAmount      decimal.Decimal `json:"new_amount"`
	UpdatedBy      string          `json:"updated_by"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PortfolioOwner is the top-level account under which sub-marketers operate.
type PortfolioOwner struct {
	PortfolioOwnerID string    `json:"portfolio_owner_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// SubMarketer is an agent managed by a portfolio owner who originates
// investor relationships.
type SubMarketer struct {
	SubMarketerID    string    `json:"sub_marketer_id"`
	PortfolioOwnerID string    `json:"portfolio_owner_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
