// Package analytics implements the aggregation core: day bucketing,
// KPI computation, trend comparison and customer ranking. Every
// function is a pure, synchronous transformation over an immutable
// transaction snapshot; none of them mutate their inputs or panic on
// data shape.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// dayLayout is the calendar-day key format used for all bucketing.
const dayLayout = "2006-01-02"

// KeyFunc computes the calendar-day key ("2006-01-02") for a
// transaction. ok is false when the transaction carries no usable
// timestamp; such records are excluded from bucketed aggregates and
// reported via Skipped.
type KeyFunc func(tx domain.Transaction) (string, bool)

// DayKey is the default KeyFunc: the transaction timestamp truncated
// to its date component. No timezone conversion is applied beyond what
// the source representation already carries.
func DayKey(tx domain.Transaction) (string, bool) {
	ts, ok := tx.OccurredAt()
	if !ok {
		return "", false
	}
	return ts.Format(dayLayout), true
}

// BucketResult is an ordered day-bucket series plus the number of
// records that could not be bucketed.
type BucketResult struct {
	Buckets []domain.DailyBucket
	Skipped int
}

// dayTotals is the partial aggregate accumulated per calendar day
// before the series is zero-filled.
type dayTotals struct {
	count          int
	totalAmount    decimal.Decimal
	completedCount int
}

func accumulateByDay(txns []domain.Transaction, key KeyFunc) (map[string]dayTotals, int) {
	totals := make(map[string]dayTotals)
	skipped := 0
	for _, tx := range txns {
		day, ok := key(tx)
		if !ok {
			skipped++
			continue
		}
		t := totals[day]
		t.count++
		t.totalAmount = t.totalAmount.Add(tx.Amount)
		if tx.IsCompleted() {
			t.completedCount++
		}
		totals[day] = t
	}
	return totals, skipped
}

// fillRange emits one bucket per day from first to last inclusive, in
// ascending order, zero-filling days with no activity.
func fillRange(totals map[string]dayTotals, first, last time.Time) []domain.DailyBucket {
	days := int(last.Sub(first).Hours()/24) + 1
	buckets := make([]domain.DailyBucket, 0, days)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		t := totals[day.Format(dayLayout)]
		buckets = append(buckets, domain.DailyBucket{
			Date:           day,
			Count:          t.count,
			TotalAmount:    t.totalAmount,
			CompletedCount: t.completedCount,
		})
	}
	return buckets
}

// FullRange bucketizes from the earliest to the latest transaction
// date, inclusive. Empty or all-invalid input yields an empty series.
func FullRange(txns []domain.Transaction, key KeyFunc) BucketResult {
	totals, skipped := accumulateByDay(txns, key)
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

// FixedWindow bucketizes exactly the last days calendar days ending at
// today, regardless of how far back transactions exist. Activity
// outside the window is ignored; days without activity are zero-filled.
// days <= 0 yields an empty series.
func FixedWindow(txns []domain.Transaction, key KeyFunc, days int, today time.Time) BucketResult {
	if days <= 0 {
		return BucketResult{Buckets: []domain.DailyBucket{}}
	}

	last, _ := time.Parse(dayLayout, today.Format(dayLayout))
	first := last.AddDate(0, 0, -(days - 1))
	firstKey := first.Format(dayLayout)
	lastKey := last.Format(dayLayout)

	totals, skipped := accumulateByDay(txns, key)
	for day := range totals {
		if day < firstKey || day > lastKey {
			delete(totals, day)
		}
	}

	return BucketResult{Buckets: fillRange(totals, first, last), Skipped: skipped}
}
