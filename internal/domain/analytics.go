package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Derived aggregates
// ============================================================
// All types in this file are recomputed fresh from a Snapshot on every
// aggregation request. Nothing here is persisted.

// DailyBucket aggregates one calendar day of activity. Date carries
// only the day component (midnight, snapshot timezone).
type DailyBucket struct {
	Date           time.Time       `json:"date"`
	Count          int             `json:"count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CompletedCount int             `json:"completed_count"`
}

// DailyVolume is the unfiltered count and amount sum for a single day.
type DailyVolume struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CustomerAggregate is one leaderboard entry, keyed by actor.
type CustomerAggregate struct {
	Actor            string          `json:"actor"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	LastActivity     time.Time       `json:"last_activity"`
}

// RevenueSlice is one entry of a revenue-by-type breakdown. Percentage
// is computed against the grouped total of the same breakdown.
type RevenueSlice struct {
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// Trend directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// TrendResult is a period-over-period comparison for one metric.
// Favorable reports whether the movement is the good outcome for that
// metric (lower latency is favorable, higher volume is favorable).
type TrendResult struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	PercentChange float64 `json:"percent_change"`
	Direction     string  `json:"direction"`
	Favorable     bool    `json:"favorable"`
}

// ============================================================
// Dashboard
// ============================================================

// DashboardKPIs are the headline figures for the current window.
type DashboardKPIs struct {
	SuccessRate      float64 `json:"success_rate"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
	TransactionCount int     `json:"transaction_count"`
	TotalVolume      float64 `json:"total_volume"`
}

// DashboardSummary is the full refresh payload for the dashboard
// screen: rolling-window buckets, KPIs with trends against the
// previous window, revenue breakdown and the customer leaderboard.
type DashboardSummary struct {
	SnapshotID     string                 `json:"snapshot_id"`
	GeneratedAt    time.Time              `json:"generated_at"`
	WindowDays     int                    `json:"window_days"`
	KPIs           DashboardKPIs          `json:"kpis"`
	Trends         map[string]TrendResult `json:"trends"`
	DailyBuckets   []DailyBucket          `json:"daily_buckets"`
	RevenueByType  []RevenueSlice         `json:"revenue_by_type"`
	TopCustomers   []CustomerAggregate    `json:"top_customers"`
	SkippedRecords int                    `json:"skipped_records"`
}
