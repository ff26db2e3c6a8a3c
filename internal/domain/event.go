package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EventType defines the type of domain event.
type EventType string

const (
	// EventStatusChanged fires after every accepted status transition.
	EventStatusChanged EventType = "INVESTMENT_STATUS_CHANGED"

	// EventScopeReloaded fires when a working set is replaced wholesale.
	EventScopeReloaded EventType = "SCOPE_RELOADED"
)

// DomainEvent is an immutable notification dispatched after a store
// mutation. Observers (metrics, logging, view refresh) subscribe via the
// EventDispatcher.
type DomainEvent struct {
	EventID     string    `json:"event_id"`
	EventType   EventType `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	Payload     []byte    `json:"payload"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusChangedPayload is the payload for EventStatusChanged.
type StatusChangedPayload struct {
	InvestmentID   string          `json:"investment_id"`
	PreviousStatus Status          `json:"previous_status"`
	NewStatus      Status          `json:"new_status"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	NewAmount      decimal.Decimal `json:"new_amount"`
}

// ToJSON converts the payload to JSON bytes.
func (p StatusChangedPayload) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// ScopeReloadedPayload is the payload for EventScopeReloaded.
type ScopeReloadedPayload struct {
	Scope   string `json:"scope"`
	Records int    `json:"records"`
}

// ToJSON converts the payload to JSON bytes.
func (p ScopeReloadedPayload) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}
