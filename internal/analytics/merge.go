package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// Partitioned aggregation. Per-day counts and sums are associative and
// commutative, so a snapshot can be split across workers and the
// partial results merged without changing the outcome. Actor grouping
// merges in partition order to keep the first-encounter tie order of
// the serial scan.

type bucketPartial struct {
	totals  map[string]dayTotals
	skipped int
}

func mergeDayTotals(parts []bucketPartial) (map[string]dayTotals, int) {
	merged := make(map[string]dayTotals)
	skipped := 0
	for _, p := range parts {
		skipped += p.skipped
		for day, t := range p.totals {
			m := merged[day]
			m.count += t.count
			m.totalAmount = m.totalAmount.Add(t.totalAmount)
			m.completedCount += t.completedCount
			merged[day] = m
		}
	}
	return merged, skipped
}

func partition(n, workers int) [][2]int {
	if workers > n {
		workers = n
	}
	bounds := make([][2]int, 0, workers)
	chunk := n / workers
	rem := n % workers
	start := 0
	for i := 0; i < workers; i++ {
		size := chunk
		if i < rem {
			size++
		}
		bounds = append(bounds, [2]int{start, start + size})
		start += size
	}
	return bounds
}

// FullRangeParallel computes the same series as FullRange by fanning
// the snapshot across workers and merging partial day totals.
// workers <= 1 falls back to the serial path.
func FullRangeParallel(txns []domain.Transaction, key KeyFunc, workers int) BucketResult {
	if workers <= 1 || len(txns) < 2 {
		return FullRange(txns, key)
	}

	bounds := partition(len(txns), workers)
	parts := make([]bucketPartial, len(bounds))

	var wg sync.WaitGroup
	for i, b := range bounds {
		wg.Add(1)
		go func(i int, lo, hi int) {
			defer wg.Done()
			totals, skipped := accumulateByDay(txns[lo:hi], key)
			parts[i] = bucketPartial{totals: totals, skipped: skipped}
		}(i, b[0], b[1])
	}
	wg.Wait()

	totals, skipped := mergeDayTotals(parts)
	if len(totals) == 0 {
		return BucketResult{Buckets: []domain.DailyBucket{}, Skipped: skipped}
	}

	var minDay, maxDay string
	for day := range totals {
		if minDay == "" || day < minDay {
			minDay = day
		}
		if maxDay == "" || day > maxDay {
			maxDay = day
		}
	}
	first, _ := time.Parse(dayLayout, minDay)
	last, _ := time.Parse(dayLayout, maxDay)

	return BucketResult{Buckets: fillRange(totals, first, last), Skipped: skipped}
}

type customerPartial struct {
	aggs    []domain.CustomerAggregate
	skipped int
}

func accumulateByActor(txns []domain.Transaction) customerPartial {
	byActor := make(map[string]int)
	aggs := make([]domain.CustomerAggregate, 0)
	skipped := 0
	for _, tx := range txns {
		ts, ok := tx.OccurredAt()
		if !ok || tx.Actor == "" {
			skipped++
			continue
		}
		idx, seen := byActor[tx.Actor]
		if !seen {
			idx = len(aggs)
			byActor[tx.Actor] = idx
			aggs = append(aggs, domain.CustomerAggregate{Actor: tx.Actor})
		}
		aggs[idx].TransactionCount++
		aggs[idx].TotalAmount = aggs[idx].TotalAmount.Add(tx.Amount)
		if ts.After(aggs[idx].LastActivity) {
			aggs[idx].LastActivity = ts
		}
	}
	return customerPartial{aggs: aggs, skipped: skipped}
}

// TopCustomersParallel computes the same leaderboard as TopCustomers
// by aggregating contiguous partitions concurrently. Partials are
// merged in partition order, which reproduces the serial scan's
// first-encounter order for tie-breaking.
func TopCustomersParallel(txns []domain.Transaction, n, workers int) ([]domain.CustomerAggregate, int, error) {
	if n <= 0 {
		return nil, 0, &domain.ErrValidation{Field: "n", Message: "must be positive"}
	}
	if workers <= 1 || len(txns) < 2 {
		return TopCustomers(txns, n)
	}

	bounds := partition(len(txns), workers)
	parts := make([]customerPartial, len(bounds))

	var wg sync.WaitGroup
	for i, b := range bounds {
		wg.Add(1)
		go func(i int, lo, hi int) {
			defer wg.Done()
			parts[i] = accumulateByActor(txns[lo:hi])
		}(i, b[0], b[1])
	}
	wg.Wait()

	byActor := make(map[string]int)
	merged := make([]domain.CustomerAggregate, 0)
	skipped := 0
	for _, p := range parts {
		skipped += p.skipped
		for _, agg := range p.aggs {
			idx, seen := byActor[agg.Actor]
			if !seen {
				idx = len(merged)
				byActor[agg.Actor] = idx
				merged = append(merged, domain.CustomerAggregate{Actor: agg.Actor})
			}
			merged[idx].TransactionCount += agg.TransactionCount
			merged[idx].TotalAmount = merged[idx].TotalAmount.Add(agg.TotalAmount)
			if agg.LastActivity.After(merged[idx].LastActivity) {
				merged[idx].LastActivity = agg.LastActivity
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TransactionCount > merged[j].TransactionCount
	})
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged, skipped, nil
}
