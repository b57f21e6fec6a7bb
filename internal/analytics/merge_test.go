package analytics_test

import (
	"fmt"
	"testing"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/analytics"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// mixedSnapshot builds a snapshot spread over several days and actors,
// including a few unbucketable records.
func mixedSnapshot() []domain.Transaction {
	var txns []domain.Transaction
	actors := []string{"alice", "bob", "carol", "dave"}
	for i := 0; i < 40; i++ {
		ts := fmt.Sprintf("2024-03-%02dT%02d:00:00Z", i%10+1, i%24)
		txns = append(txns, actorTx(fmt.Sprintf("tx-%d", i), ts, actors[i%len(actors)], float64(i)*3.5))
	}
	txns = append(txns, actorTx("bad-1", "", "alice", 100))
	txns = append(txns, actorTx("bad-2", "later", "bob", 100))
	return txns
}

func TestFullRangeParallel_MatchesSerial(t *testing.T) {
	txns := mixedSnapshot()
	serial := analytics.FullRange(txns, analytics.DayKey)

	for _, workers := range []int{2, 4, 16, 100} {
		parallel := analytics.FullRangeParallel(txns, analytics.DayKey, workers)

		if parallel.Skipped != serial.Skipped {
			t.Errorf("workers=%d: skipped %d, want %d", workers, parallel.Skipped, serial.Skipped)
		}
		if len(parallel.Buckets) != len(serial.Buckets) {
			t.Fatalf("workers=%d: %d buckets, want %d", workers, len(parallel.Buckets), len(serial.Buckets))
		}
		for i, b := range parallel.Buckets {
			want := serial.Buckets[i]
			if !b.Date.Equal(want.Date) || b.Count != want.Count || !b.TotalAmount.Equal(want.TotalAmount) {
				t.Errorf("workers=%d bucket %d: got {%s %d %s}, want {%s %d %s}",
					workers, i,
					b.Date.Format("2006-01-02"), b.Count, b.TotalAmount,
					want.Date.Format("2006-01-02"), want.Count, want.TotalAmount)
			}
			if b.CompletedCount != want.CompletedCount {
				t.Errorf("workers=%d bucket %d: completed %d, want %d",
					workers, i, b.CompletedCount, want.CompletedCount)
			}
		}
	}
}

func TestFullRangeParallel_SingleWorkerFallsBack(t *testing.T) {
	txns := mixedSnapshot()

	serial := analytics.FullRange(txns, analytics.DayKey)
	result := analytics.FullRangeParallel(txns, analytics.DayKey, 1)

	if len(result.Buckets) != len(serial.Buckets) || result.Skipped != serial.Skipped {
		t.Errorf("expected identical series from the serial fallback")
	}
}

func TestFullRangeParallel_Empty(t *testing.T) {
	result := analytics.FullRangeParallel(nil, analytics.DayKey, 4)
	if len(result.Buckets) != 0 || result.Skipped != 0 {
		t.Errorf("expected empty result, got %d buckets, %d skipped", len(result.Buckets), result.Skipped)
	}
}

func TestTopCustomersParallel_MatchesSerial(t *testing.T) {
	txns := mixedSnapshot()
	serial, serialSkipped, err := analytics.TopCustomers(txns, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, workers := range []int{2, 3, 8} {
		parallel, skipped, err := analytics.TopCustomersParallel(txns, 10, workers)
		if err != nil {
			t.Fatalf("workers=%d: expected no error, got %v", workers, err)
		}
		if skipped != serialSkipped {
			t.Errorf("workers=%d: skipped %d, want %d", workers, skipped, serialSkipped)
		}
		if len(parallel) != len(serial) {
			t.Fatalf("workers=%d: %d customers, want %d", workers, len(parallel), len(serial))
		}
		for i, agg := range parallel {
			want := serial[i]
			if agg.Actor != want.Actor || agg.TransactionCount != want.TransactionCount ||
				!agg.TotalAmount.Equal(want.TotalAmount) || !agg.LastActivity.Equal(want.LastActivity) {
				t.Errorf("workers=%d rank %d: got %+v, want %+v", workers, i, agg, want)
			}
		}
	}
}

func TestTopCustomersParallel_PreservesTieOrder(t *testing.T) {
	// bob is first-encountered before alice; their counts tie across
	// every partitioning.
	var txns []domain.Transaction
	txns = append(txns, actorTx("b-0", "2024-03-01T08:00:00Z", "bob", 10))
	txns = append(txns, actorTx("a-0", "2024-03-01T09:00:00Z", "alice", 10))
	for i := 1; i < 6; i++ {
		ts := fmt.Sprintf("2024-03-%02dT10:00:00Z", i+1)
		txns = append(txns, actorTx(fmt.Sprintf("a-%d", i), ts, "alice", 10))
		txns = append(txns, actorTx(fmt.Sprintf("b-%d", i), ts, "bob", 10))
	}

	for _, workers := range []int{2, 3, 5} {
		top, _, err := analytics.TopCustomersParallel(txns, 2, workers)
		if err != nil {
			t.Fatalf("workers=%d: expected no error, got %v", workers, err)
		}
		if top[0].Actor != "bob" || top[1].Actor != "alice" {
			t.Errorf("workers=%d: expected [bob alice], got [%s %s]",
				workers, top[0].Actor, top[1].Actor)
		}
	}
}

func TestTopCustomersParallel_InvalidLimit(t *testing.T) {
	_, _, err := analytics.TopCustomersParallel(mixedSnapshot(), 0, 4)
	if err == nil {
		t.Fatal("expected validation error for n=0")
	}
}
