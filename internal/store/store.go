// Package store owns the canonical in-memory investment collection for one
// viewing scope. It is the only component that mutates investment records:
// every change goes through the domain transition rules, commits to the
// backend first, and lands locally as an atomic apply-or-reject.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invest-console.io/console/internal/analytics"
	"invest-console.io/console/internal/domain"
	apperrors "invest-console.io/console/internal/pkg/errors"
)

// Committer persists an accepted transition upstream before the store
// applies it locally (pessimistic commit). The backend gateway implements
// this; tests inject failures through it.
type Committer interface {
	CommitStatus(ctx context.Context, investmentID string, status domain.Status, amount decimal.Decimal) error
}

// Store holds the working set for the current scope, the append-only audit
// log of accepted transitions, and the aggregate snapshot derived from the
// working set. Reads take the read lock; writes serialize, preserving the
// single-mutator call-order guarantee.
type Store struct {
	mu         sync.RWMutex
	scope      string
	generation uint64
	records    []domain.InvestmentRecord
	index      map[string]int
	inflight   map[string]struct{}
	audit      []domain.StatusUpdateEvent
	snapshot   analytics.Snapshot
	committer  Committer
	dispatcher *domain.EventDispatcher
	now        func() time.Time
}

// New creates an empty store. committer and dispatcher may be nil (no
// upstream persistence, no observers) — useful for tests.
func New(committer Committer, dispatcher *domain.EventDispatcher) *Store {
	return &Store{
		index:      make(map[string]int),
		inflight:   make(map[string]struct{}),
		snapshot:   analytics.Compute(nil),
		committer:  committer,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// LoadScope replaces the entire working set. Aggregates and the scope-local
// audit log are reset. Record order is preserved as given.
func (s *Store) LoadScope(ctx context.Context, scope string, records []domain.InvestmentRecord) {
	s.mu.Lock()
	s.scope = scope
	s.generation++
	s.records = append([]domain.InvestmentRecord(nil), records...)
	s.index = make(map[string]int, len(s.records))
	for i, r := range s.records {
		s.index[r.InvestmentID] = i
	}
	s.audit = nil
	s.snapshot = analytics.Compute(s.records)
	count := len(s.records)
	s.mu.Unlock()

	s.dispatch(ctx, domain.EventScopeReloaded, scope, "", domain.ScopeReloadedPayload{
		Scope:   scope,
		Records: count,
	})
}

// RequestTransition validates and applies a status transition to the record
// with the given id. The working set is only mutated after the committer
// accepts the change; on any failure the set is untouched and the error is
// returned for display.
//
// The lock is not held across the committer's round trip: the record is
// marked in flight instead, so concurrent reads proceed and a second
// transition for the same record is rejected with TRANSITION_IN_FLIGHT.
func (s *Store) RequestTransition(ctx context.Context, investmentID string, target domain.Status, amount *decimal.Decimal, actor string) (domain.InvestmentRecord, error) {
	s.mu.Lock()

	idx, ok := s.index[investmentID]
	if !ok {
		s.mu.Unlock()
		return domain.InvestmentRecord{}, apperrors.ErrInvestmentNotFoundf(investmentID)
	}
	if _, busy := s.inflight[investmentID]; busy {
		s.mu.Unlock()
		return domain.InvestmentRecord{}, apperrors.ErrTransitionInFlightf(investmentID)
	}

	updated, event, err := domain.ApplyTransition(s.records[idx], target, amount, actor, s.now())
	if err != nil {
		s.mu.Unlock()
		return domain.InvestmentRecord{}, err
	}

	gen := s.generation
	s.inflight[investmentID] = struct{}{}
	s.mu.Unlock()

	if s.committer != nil {
		if err := s.committer.CommitStatus(ctx, investmentID, target, updated.Amount); err != nil {
			s.mu.Lock()
			delete(s.inflight, investmentID)
			s.mu.Unlock()
			if appErr, ok := apperrors.IsAppError(err); ok {
				return domain.InvestmentRecord{}, appErr
			}
			return domain.InvestmentRecord{}, apperrors.ErrBackendUnavailablef(err)
		}
	}

	// Commit accepted: apply in place, one audit event, fresh snapshot.
	// If a scope reload replaced the working set during the commit, the
	// stale apply is skipped; the next reload reflects the backend state.
	s.mu.Lock()
	delete(s.inflight, investmentID)
	if s.generation == gen {
		s.records[idx] = updated
		s.audit = append(s.audit, event)
		s.snapshot = analytics.Compute(s.records)
	}
	s.mu.Unlock()

	s.dispatch(ctx, domain.EventStatusChanged, investmentID, actor, domain.StatusChangedPayload{
		InvestmentID:   investmentID,
		PreviousStatus: event.PreviousStatus,
		NewStatus:      event.NewStatus,
		PreviousAmount: event.PreviousAmount,
		NewAmount:      event.NewAmount,
	})

	return updated, nil
}

// Snapshot returns the aggregate snapshot reflecting the most recent
// LoadScope or accepted RequestTransition.
func (s *Store) Snapshot() analytics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Scope returns the identifier of the currently loaded scope.
func (s *Store) Scope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

// Records returns a copy of the working set in its original order.
func (s *Store) Records() []domain.InvestmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.InvestmentRecord(nil), s.records...)
}

// Search returns records whose investor name or email contains term,
// case-insensitively. An empty term returns the full working set. Original
// order is preserved.
func (s *Store) Search(term string) []domain.InvestmentRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.Records()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]domain.InvestmentRecord, 0, len(s.records))
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.InvestorName), term) ||
			strings.Contains(strings.ToLower(r.InvestorEmail), term) {
			matches = append(matches, r)
		}
	}
	return matches
}

// FilterByStatus returns records in the given status. The value "all" (or
// empty) is the identity filter; any other unrecognized value is rejected.
func (s *Store) FilterByStatus(status string) ([]domain.InvestmentRecord, error) {
	if status == "" || status == "all" {
		return s.Records(), nil
	}
	target := domain.Status(status)
	if !target.Valid() {
		return nil, apperrors.ErrUnknownStatusf(status)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]domain.InvestmentRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.Status == target {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// AuditLog returns the status update events recorded since the last scope
// load, oldest first. A non-empty investmentID filters to one record's
// history.
func (s *Store) AuditLog(investmentID string) []domain.StatusUpdateEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if investmentID == "" {
		return append([]domain.StatusUpdateEvent(nil), s.audit...)
	}
	var events []domain.StatusUpdateEvent
	for _, e := range s.audit {
		if e.InvestmentID == investmentID {
			events = append(events, e)
		}
	}
	return events
}

func (s *Store) dispatch(ctx context.Context, eventType domain.EventType, aggregateID, actor string, payload interface{ ToJSON() ([]byte, error) }) {
	if s.dispatcher == nil {
		return
	}
	data, err := payload.ToJSON()
	if err != nil {
		return
	}
	// Dispatched outside the lock so observers may read the store.
	_ = s.dispatcher.Dispatch(ctx, &domain.DomainEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     data,
		CreatedBy:   actor,
		CreatedAt:   s.now(),
	})
}
