package analytics

import (
	"sort"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// DefaultLeaderboardSize is used when callers pass no explicit limit.
const DefaultLeaderboardSize = 5

// TopCustomers groups transactions by actor and returns the n most
// active customers, sorted descending by transaction count.
//
// Tie-break: stable — entries with equal transactionCount retain the
// relative order in which their actor was first encountered while
// scanning the input. This is a reproducibility requirement, not a
// fairness claim.
//
// Records without a parseable timestamp or without an actor are
// excluded and reported in the skipped count. Fewer than n distinct
// actors returns all of them. n <= 0 is a caller contract violation.
func TopCustomers(txns []domain.Transaction, n int) ([]domain.CustomerAggregate, int, error) {
	if n <= 0 {
		return nil, 0, &domain.ErrValidation{Field: "n", Message: "must be positive"}
	}

	p := accumulateByActor(txns)
	aggs := p.aggs

	// SliceStable over the first-encounter order preserves it for ties.
	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].TransactionCount > aggs[j].TransactionCount
	})

	if len(aggs) > n {
		aggs = aggs[:n]
	}
	return aggs, p.skipped, nil
}
