package app

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"invest-console.io/console/internal/domain"
	"invest-console.io/console/internal/pkg/logger"
)

// registerObservers subscribes the logging observers to store events. The
// audit trail of record is the store's per-scope log; these are operational
// visibility only.
func registerObservers(dispatcher *domain.EventDispatcher) {
	dispatcher.Register(domain.EventStatusChanged, func(_ context.Context, event *domain.DomainEvent) error {
		var p domain.StatusChangedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		logger.Info("investment status changed",
			zap.String("investment_id", p.InvestmentID),
			zap.String("previous_status", string(p.PreviousStatus)),
			zap.String("new_status", string(p.NewStatus)),
			zap.String("actor", event.CreatedBy),
		)
		return nil
	})

	dispatcher.Register(domain.EventScopeReloaded, func(_ context.Context, event *domain.DomainEvent) error {
		var p domain.ScopeReloadedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		logger.Info("scope loaded",
			zap.String("scope", p.Scope),
			zap.Int("records", p.Records),
		)
		return nil
	})
}
