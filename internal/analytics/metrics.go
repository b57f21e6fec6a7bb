package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// All aggregator functions are total: empty days and empty snapshots
// resolve to zero values, never to errors or NaN.

var oneHundred = decimal.NewFromInt(100)

// sameDay reports whether the transaction occurred on the given
// calendar day. Transactions without a parseable timestamp never match.
func sameDay(tx domain.Transaction, date time.Time) bool {
	day, ok := DayKey(tx)
	return ok && day == date.Format(dayLayout)
}

// SuccessRate returns the percentage [0,100] of the day's transactions
// with a resolved status of COMPLETED. A day with zero transactions
// returns exactly 0.
func SuccessRate(txns []domain.Transaction, date time.Time) float64 {
	total := 0
	completed := 0
	for _, tx := range txns {
		if !sameDay(tx, date) {
			continue
		}
		total++
		if tx.IsCompleted() {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// AverageLatency returns the mean processing duration in milliseconds
// over the day's COMPLETED transactions that carry both createdAt and
// updatedAt. Returns 0 when there are none; rendering 0 as "N/A" is a
// presentation concern.
func AverageLatency(txns []domain.Transaction, date time.Time) float64 {
	var totalMs int64
	samples := 0
	for _, tx := range txns {
		if !sameDay(tx, date) || !tx.IsCompleted() {
			continue
		}
		d, ok := tx.ProcessingLatency()
		if !ok {
			continue
		}
		totalMs += d.Milliseconds()
		samples++
	}
	if samples == 0 {
		return 0
	}
	return float64(totalMs) / float64(samples)
}

// DailyVolume returns the count and amount sum for the day across all
// statuses. Callers needing COMPLETED-only figures filter beforehand.
func DailyVolume(txns []domain.Transaction, date time.Time) domain.DailyVolume {
	v := domain.DailyVolume{}
	for _, tx := range txns {
		if !sameDay(tx, date) {
			continue
		}
		v.Count++
		v.TotalAmount = v.TotalAmount.Add(tx.Amount)
	}
	return v
}

// PeriodPredicate selects transactions belonging to a reporting period.
type PeriodPredicate func(ts time.Time) bool

// PeriodAll matches every transaction with a valid timestamp.
func PeriodAll(time.Time) bool { return true }

// PeriodLastDays matches timestamps within the last days calendar days
// ending at today, inclusive.
func PeriodLastDays(days int, today time.Time) PeriodPredicate {
	lastKey := today.Format(dayLayout)
	last, _ := time.Parse(dayLayout, lastKey)
	firstKey := last.AddDate(0, 0, -(days - 1)).Format(dayLayout)
	return func(ts time.Time) bool {
		key := ts.Format(dayLayout)
		return key >= firstKey && key <= lastKey
	}
}

// RevenueByType groups the period's transactions by type and sums their
// amounts. Each slice's percentage is computed against the grouped
// total, and the result is sorted by amount descending for display.
// The second return value is the count of records skipped for missing
// or unparseable timestamps.
func RevenueByType(txns []domain.Transaction, within PeriodPredicate) ([]domain.RevenueSlice, int) {
	sums := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	skipped := 0
	grandTotal := decimal.Zero

	for _, tx := range txns {
		ts, ok := tx.OccurredAt()
		if !ok {
			skipped++
			continue
		}
		if !within(ts) {
			continue
		}
		if _, seen := sums[tx.Type]; !seen {
			order = append(order, tx.Type)
		}
		sums[tx.Type] = sums[tx.Type].Add(tx.Amount)
		grandTotal = grandTotal.Add(tx.Amount)
	}

	slices := make([]domain.RevenueSlice, 0, len(order))
	for _, txType := range order {
		amount := sums[txType]
		pct := 0.0
		if grandTotal.IsPositive() {
			pct, _ = amount.Div(grandTotal).Mul(oneHundred).Round(2).Float64()
		}
		slices = append(slices, domain.RevenueSlice{
			Type:       txType,
			Amount:     amount,
			Percentage: pct,
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Amount.GreaterThan(slices[j].Amount)
	})

	return slices, skipped
}
