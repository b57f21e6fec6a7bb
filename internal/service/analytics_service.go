// Package service orchestrates snapshot fetching and aggregation.
// Sources are fetched in parallel and degraded to empty collections on
// failure; aggregation is pure and always produces a result.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/analytics"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/observability"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/resilience"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/port"
)

var tracer = otel.Tracer("service/analytics")

const snapshotCacheKey = "snapshot"

// Options are the aggregation knobs.
type Options struct {
	// WindowDays is the rolling dashboard window (default 7).
	WindowDays int
	// RankingLimit is the default leaderboard size (default 5).
	RankingLimit int
	// Workers is the partition count for parallel aggregation.
	Workers int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.WindowDays <= 0 {
		o.WindowDays = 7
	}
	if o.RankingLimit <= 0 {
		o.RankingLimit = analytics.DefaultLeaderboardSize
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// AnalyticsService computes dashboard summaries, report series and CSV
// exports from the current source snapshots.
type AnalyticsService struct {
	transactions port.TransactionSource
	accounts     port.AccountSource
	users        port.UserSource
	cache        port.Cache[*domain.Snapshot]
	bulkhead     *resilience.Bulkhead
	metrics      *observability.Metrics
	logger       *zap.Logger
	opts         Options
}

// NewAnalyticsService creates the service with all dependencies injected.
func NewAnalyticsService(
	transactions port.TransactionSource,
	accounts port.AccountSource,
	users port.UserSource,
	cache port.Cache[*domain.Snapshot],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
	opts Options,
) *AnalyticsService {
	return &AnalyticsService{
		transactions: transactions,
		accounts:     accounts,
		users:        users,
		cache:        cache,
		bulkhead:     bulkhead,
		metrics:      metrics,
		logger:       logger,
		opts:         opts.withDefaults(),
	}
}

// fetchSnapshot returns the current source snapshot, fanning out to
// the three sources in parallel. A source that fails or times out
// contributes an empty collection: aggregation never blocks on, or
// fails because of, an unavailable source. force bypasses the cache.
func (s *AnalyticsService) fetchSnapshot(ctx context.Context, force bool) (*domain.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.fetchSnapshot")
	defer span.End()

	if force {
		s.cache.Delete(snapshotCacheKey)
	} else if cached, ok := s.cache.Get(snapshotCacheKey); ok {
		s.metrics.IncrCacheHit("snapshot")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("snapshot")

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	snap := &domain.Snapshot{
		Transactions: []domain.Transaction{},
		Accounts:     []domain.Account{},
		Users:        []domain.User{},
	}
	degraded := false

	// Fan-out: all sources fetched concurrently, joined before
	// aggregation starts. Errors degrade to empty, they never propagate.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txns, err := s.transactions.GetTransactions(gCtx)
		if err != nil {
			s.logger.Warn("transaction source unavailable, using empty snapshot", zap.Error(err))
			s.metrics.IncrSourceError("transactions")
			degraded = true
			return nil
		}
		snap.Transactions = txns
		return nil
	})

	g.Go(func() error {
		accts, err := s.accounts.GetAccounts(gCtx)
		if err != nil {
			s.logger.Warn("account source unavailable, using empty snapshot", zap.Error(err))
			s.metrics.IncrSourceError("accounts")
			degraded = true
			return nil
		}
		snap.Accounts = accts
		return nil
	})

	g.Go(func() error {
		users, err := s.users.GetUsers(gCtx)
		if err != nil {
			s.logger.Warn("user source unavailable, using empty snapshot", zap.Error(err))
			s.metrics.IncrSourceError("users")
			degraded = true
			return nil
		}
		snap.Users = users
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if degraded {
		s.metrics.IncrRefresh("degraded")
	} else {
		s.metrics.IncrRefresh("full")
	}
	span.SetAttributes(
		attribute.Int("snapshot.transactions", len(snap.Transactions)),
		attribute.Bool("snapshot.degraded", degraded),
	)

	s.cache.Set(snapshotCacheKey, snap)
	return snap, nil
}

// Probe checks reachability of the user source. Used by /healthz.
func (s *AnalyticsService) Probe(ctx context.Context) error {
	_, err := s.users.GetUsers(ctx)
	return err
}

// Dashboard computes the full dashboard refresh payload: rolling-window
// buckets, today's KPIs, trends against the previous window, revenue
// breakdown and the customer leaderboard.
func (s *AnalyticsService) Dashboard(ctx context.Context, force bool) (*domain.DashboardSummary, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.Dashboard")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordAggregationDuration("dashboard", time.Since(start))
	}()

	snap, err := s.fetchSnapshot(ctx, force)
	if err != nil {
		return nil, err
	}

	txns := snap.Transactions
	today := s.opts.Now()
	window := s.opts.WindowDays

	buckets := analytics.FixedWindow(txns, analytics.DayKey, window, today)
	prevBuckets := analytics.FixedWindow(txns, analytics.DayKey, window, today.AddDate(0, 0, -window))

	curCount, curVolume := sumBuckets(buckets.Buckets)
	prevCount, prevVolume := sumBuckets(prevBuckets.Buckets)

	successToday := analytics.SuccessRate(txns, today)
	successYesterday := analytics.SuccessRate(txns, today.AddDate(0, 0, -1))
	latencyToday := analytics.AverageLatency(txns, today)
	latencyYesterday := analytics.AverageLatency(txns, today.AddDate(0, 0, -1))

	revenue, revSkipped := analytics.RevenueByType(txns, analytics.PeriodLastDays(window, today))
	prevRevenue, _ := analytics.RevenueByType(txns, analytics.PeriodLastDays(window, today.AddDate(0, 0, -window)))

	top, topSkipped, err := analytics.TopCustomersParallel(txns, s.opts.RankingLimit, s.opts.Workers)
	if err != nil {
		return nil, err
	}

	// Favorable direction is per metric: latency improves downward,
	// everything else upward.
	trends := map[string]domain.TrendResult{
		"transaction_count": analytics.Compare(float64(curCount), float64(prevCount), domain.DirectionUp),
		"total_volume":      analytics.Compare(toDisplay(curVolume), toDisplay(prevVolume), domain.DirectionUp),
		"success_rate":      analytics.Compare(successToday, successYesterday, domain.DirectionUp),
		"avg_latency":       analytics.Compare(latencyToday, latencyYesterday, domain.DirectionDown),
		"deposits":          analytics.Compare(typeAmount(revenue, domain.TypeDeposit), typeAmount(prevRevenue, domain.TypeDeposit), domain.DirectionUp),
	}

	skipped := buckets.Skipped
	if revSkipped > skipped {
		skipped = revSkipped
	}
	if topSkipped > skipped {
		skipped = topSkipped
	}
	s.metrics.AddSkippedRecords("dashboard", skipped)

	return &domain.DashboardSummary{
		SnapshotID:  uuid.New().String(),
		GeneratedAt: today,
		WindowDays:  window,
		KPIs: domain.DashboardKPIs{
			SuccessRate:      successToday,
			AvgLatencyMs:     latencyToday,
			TransactionCount: curCount,
			TotalVolume:      toDisplay(curVolume),
		},
		Trends:         trends,
		DailyBuckets:   buckets.Buckets,
		RevenueByType:  revenue,
		TopCustomers:   top,
		SkippedRecords: skipped,
	}, nil
}

// DailyVolumeSeries returns the full min→max day-bucket series for the
// reports screen.
func (s *AnalyticsService) DailyVolumeSeries(ctx context.Context) ([]domain.DailyBucket, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.DailyVolumeSeries")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordAggregationDuration("daily_volume", time.Since(start))
	}()

	snap, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	result := analytics.FullRangeParallel(snap.Transactions, analytics.DayKey, s.opts.Workers)
	s.metrics.AddSkippedRecords("daily_volume", result.Skipped)
	return result.Buckets, nil
}

// RevenueBreakdown returns the revenue-by-type slices over the full
// snapshot range.
func (s *AnalyticsService) RevenueBreakdown(ctx context.Context) ([]domain.RevenueSlice, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.RevenueBreakdown")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordAggregationDuration("revenue_by_type", time.Since(start))
	}()

	snap, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	slices, skipped := analytics.RevenueByType(snap.Transactions, analytics.PeriodAll)
	s.metrics.AddSkippedRecords("revenue_by_type", skipped)
	return slices, nil
}

// TopCustomers returns the n most active customers.
func (s *AnalyticsService) TopCustomers(ctx context.Context, n int) ([]domain.CustomerAggregate, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.TopCustomers")
	defer span.End()
	span.SetAttributes(attribute.Int("ranking.limit", n))

	start := time.Now()
	defer func() {
		s.metrics.RecordAggregationDuration("top_customers", time.Since(start))
	}()

	snap, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	top, skipped, err := analytics.TopCustomersParallel(snap.Transactions, n, s.opts.Workers)
	if err != nil {
		return nil, err
	}
	s.metrics.AddSkippedRecords("top_customers", skipped)
	return top, nil
}

func sumBuckets(buckets []domain.DailyBucket) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, b := range buckets {
		count += b.Count
		total = total.Add(b.TotalAmount)
	}
	return count, total
}

// toDisplay converts an exact decimal amount to its float display
// form. Only used at the presentation boundary, never for accumulation.
func toDisplay(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func typeAmount(slices []domain.RevenueSlice, txType string) float64 {
	for _, s := range slices {
		if s.Type == txType {
			return toDisplay(s.Amount)
		}
	}
	return 0
}
