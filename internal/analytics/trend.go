package analytics

import (
	"math"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// Trend comparison. Favorable direction is not uniform across metrics:
// success rate, volume and count improve upward, latency improves
// downward. Callers pass the metric's favorable direction instead of
// relying on a higher-is-better rule.

// PercentChange returns the signed period-over-period change.
// previous == 0 resolves to +100 when current > 0 and 0 otherwise,
// never to a division error.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// DirectionOf returns "up" when current >= previous. Ties resolve to
// up; this is an explicit policy, not an oversight.
func DirectionOf(current, previous float64) string {
	if current >= previous {
		return domain.DirectionUp
	}
	return domain.DirectionDown
}

// Compare builds the full trend result for one metric. favorable is
// the direction that counts as the good outcome for this metric
// (domain.DirectionUp or domain.DirectionDown).
func Compare(current, previous float64, favorable string) domain.TrendResult {
	direction := DirectionOf(current, previous)
	return domain.TrendResult{
		Current:       current,
		Previous:      previous,
		PercentChange: round2(PercentChange(current, previous)),
		Direction:     direction,
		Favorable:     direction == favorable,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
