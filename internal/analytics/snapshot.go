// Package analytics computes derived statistics over investment records.
//
// All functions are pure, defined for empty input, and insensitive to the
// order of the input sequence (except RollupBy, whose group order is the
// first-seen order of the key by contract).
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"invest-console.io/console/internal/domain"
)

// StatusBreakdown is the per-status slice of a snapshot.
type StatusBreakdown struct {
	Count int `json:"count"`
	// Percentage of total record count, rounded to the nearest integer.
	Percentage int `json:"percentage"`
}

// Snapshot is the derived view of a record set. Never persisted; recomputed
// from scratch after every accepted mutation.
type Snapshot struct {
	TotalRecords      int                               `json:"total_records"`
	TotalAmount       decimal.Decimal                   `json:"total_amount"`
	DistinctInvestors int                               `json:"distinct_investors"`
	ByStatus          map[domain.Status]StatusBreakdown `json:"by_status"`
}

// Rollup is one group of a per-entity aggregation.
type Rollup struct {
	Key         string          `json:"key"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

// TotalAmount sums amount over all records. Zero for empty input.
func TotalAmount(records []domain.InvestmentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// CountByStatus counts records per status. All three statuses are present in
// the result even when their count is zero.
func CountByStatus(records []domain.InvestmentRecord) map[domain.Status]int {
	counts := make(map[domain.Status]int, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		counts[s] = 0
	}
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

// PercentageByStatus computes count/total*100 per status, rounded to the
// nearest integer. Every percentage is 0 for an empty input, never NaN.
func PercentageByStatus(records []domain.InvestmentRecord) map[domain.Status]int {
	counts := CountByStatus(records)
	percentages := make(map[domain.Status]int, len(counts))
	total := len(records)
	for s, n := range counts {
		if total == 0 {
			percentages[s] = 0
			continue
		}
		percentages[s] = int(math.Round(float64(n) / float64(total) * 100))
	}
	return percentages
}

// DistinctInvestorCount returns the number of unique investor ids.
func DistinctInvestorCount(records []domain.InvestmentRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.InvestorID] = struct{}{}
	}
	return len(seen)
}

// RollupBy groups records by keyFn and sums amount and count per group.
// Group order is the first-seen order of keyFn(record).
func RollupBy(records []domain.InvestmentRecord, keyFn func(domain.InvestmentRecord) string) []Rollup {
	var order []string
	groups := make(map[string]*Rollup)
	for _, r := range records {
		key := keyFn(r)
		g, ok := groups[key]
		if !ok {
			g = &Rollup{Key: key, TotalAmount: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}
		g.TotalAmount = g.TotalAmount.Add(r.Amount)
		g.Count++
	}

	rollups := make([]Rollup, 0, len(order))
	for _, key := range order {
		rollups = append(rollups, *groups[key])
	}
	return rollups
}

// Compute builds the full snapshot for a record set.
func Compute(records []domain.InvestmentRecord) Snapshot {
	counts := CountByStatus(records)
	percentages := PercentageByStatus(records)

	byStatus := make(map[domain.Status]StatusBreakdown, len(counts))
	for _, s := range domain.AllStatuses {
		byStatus[s] = StatusBreakdown{
			Count:      counts[s],
			Percentage: percentages[s],
		}
	}

	return Snapshot{
		TotalRecords:      len(records),
		TotalAmount:       TotalAmount(records),
		DistinctInvestors: DistinctInvestorCount(records),
		ByStatus:          byStatus,
	}
}
