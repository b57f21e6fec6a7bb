package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/cache"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/observability"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/resilience"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/service"
)

// --- Mocks ---

type mockTransactionSource struct {
	transactions []domain.Transaction
	err          error
	calls        int
}

func (m *mockTransactionSource) GetTransactions(_ context.Context) ([]domain.Transaction, error) {
	m.calls++
	return m.transactions, m.err
}

type mockAccountSource struct {
	accounts []domain.Account
	err      error
}

func (m *mockAccountSource) GetAccounts(_ context.Context) ([]domain.Account, error) {
	return m.accounts, m.err
}

type mockUserSource struct {
	users []domain.User
	err   error
}

func (m *mockUserSource) GetUsers(_ context.Context) ([]domain.User, error) {
	return m.users, m.err
}

// --- Helpers ---

func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, "2024-03-31T12:00:00Z")
	if err != nil {
		t.Fatalf("bad clock literal: %v", err)
	}
	return func() time.Time { return now }
}

func tx(id, timestamp, status, actor string, amount float64) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Timestamp: timestamp,
		Status:    status,
		Actor:     actor,
		Type:      domain.TypeDeposit,
		Amount:    decimal.NewFromFloat(amount),
	}
}

func newService(txSrc *mockTransactionSource, acctSrc *mockAccountSource, userSrc *mockUserSource, now func() time.Time) *service.AnalyticsService {
	return service.NewAnalyticsService(
		txSrc,
		acctSrc,
		userSrc,
		cache.New[*domain.Snapshot](5*time.Minute),
		resilience.NewBulkhead(4),
		observability.NewMetrics(),
		zap.NewNop(),
		service.Options{WindowDays: 7, RankingLimit: 5, Workers: 2, Now: now},
	)
}

// --- Tests ---

func TestDashboard(t *testing.T) {
	transactions := []domain.Transaction{
		// Today: 2 completed, 1 failed, 1 pending.
		tx("tx-1", "2024-03-31T09:00:00Z", domain.StatusCompleted, "alice", 100),
		tx("tx-2", "2024-03-31T10:00:00Z", domain.StatusCompleted, "bob", 50),
		tx("tx-3", "2024-03-31T11:00:00Z", domain.StatusFailed, "alice", 30),
		tx("tx-4", "2024-03-31T11:30:00Z", domain.StatusPending, "bob", 20),
		// Earlier in the window.
		tx("tx-5", "2024-03-26T10:00:00Z", domain.StatusCompleted, "alice", 200),
		// Previous window only.
		tx("tx-6", "2024-03-20T10:00:00Z", domain.StatusCompleted, "carol", 100),
		// Unbucketable, must be skipped, not fail the refresh.
		tx("tx-7", "not-a-timestamp", domain.StatusCompleted, "alice", 999),
	}

	svc := newService(
		&mockTransactionSource{transactions: transactions},
		&mockAccountSource{},
		&mockUserSource{},
		fixedNow(t),
	)

	summary, err := svc.Dashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if summary.WindowDays != 7 {
		t.Errorf("expected 7-day window, got %d", summary.WindowDays)
	}
	if len(summary.DailyBuckets) != 7 {
		t.Errorf("expected 7 daily buckets, got %d", len(summary.DailyBuckets))
	}
	if summary.KPIs.SuccessRate != 50 {
		t.Errorf("expected 50%% success rate today, got %f", summary.KPIs.SuccessRate)
	}
	if summary.KPIs.TransactionCount != 5 {
		t.Errorf("expected 5 in-window transactions, got %d", summary.KPIs.TransactionCount)
	}
	if summary.KPIs.TotalVolume != 400 {
		t.Errorf("expected in-window volume 400, got %f", summary.KPIs.TotalVolume)
	}
	if summary.SkippedRecords != 1 {
		t.Errorf("expected 1 skipped record, got %d", summary.SkippedRecords)
	}
	if summary.SnapshotID == "" {
		t.Error("expected a snapshot id")
	}

	count, ok := summary.Trends["transaction_count"]
	if !ok {
		t.Fatal("expected transaction_count trend")
	}
	if count.Current != 5 || count.Previous != 1 {
		t.Errorf("expected count trend 5 vs 1, got %f vs %f", count.Current, count.Previous)
	}
	if count.PercentChange != 400 {
		t.Errorf("expected +400%% count change, got %f", count.PercentChange)
	}
	if count.Direction != domain.DirectionUp || !count.Favorable {
		t.Errorf("expected favorable upward count trend, got %+v", count)
	}

	if _, ok := summary.Trends["avg_latency"]; !ok {
		t.Error("expected avg_latency trend")
	}
	if len(summary.TopCustomers) == 0 {
		t.Fatal("expected a customer leaderboard")
	}
	if summary.TopCustomers[0].Actor != "alice" {
		t.Errorf("expected alice on top, got %s", summary.TopCustomers[0].Actor)
	}
}

func TestDashboard_EmptySnapshot(t *testing.T) {
	svc := newService(
		&mockTransactionSource{},
		&mockAccountSource{},
		&mockUserSource{},
		fixedNow(t),
	)

	summary, err := svc.Dashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("expected empty snapshot to aggregate cleanly, got %v", err)
	}

	if summary.KPIs.SuccessRate != 0 || summary.KPIs.TransactionCount != 0 || summary.KPIs.TotalVolume != 0 {
		t.Errorf("expected zero KPIs, got %+v", summary.KPIs)
	}
	if len(summary.DailyBuckets) != 7 {
		t.Errorf("expected zero-filled window, got %d buckets", len(summary.DailyBuckets))
	}
	if len(summary.RevenueByType) != 0 {
		t.Errorf("expected empty revenue breakdown, got %d", len(summary.RevenueByType))
	}
	if len(summary.TopCustomers) != 0 {
		t.Errorf("expected empty leaderboard, got %d", len(summary.TopCustomers))
	}
}

func TestDashboard_DegradedSource(t *testing.T) {
	svc := newService(
		&mockTransactionSource{err: errors.New("connection refused")},
		&mockAccountSource{err: errors.New("connection refused")},
		&mockUserSource{},
		fixedNow(t),
	)

	summary, err := svc.Dashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("expected source failure to degrade, not fail, got %v", err)
	}
	if summary.KPIs.TransactionCount != 0 {
		t.Errorf("expected empty degraded snapshot, got count %d", summary.KPIs.TransactionCount)
	}
}

func TestDashboard_UsesSnapshotCache(t *testing.T) {
	src := &mockTransactionSource{transactions: []domain.Transaction{
		tx("tx-1", "2024-03-31T09:00:00Z", domain.StatusCompleted, "alice", 100),
	}}
	svc := newService(src, &mockAccountSource{}, &mockUserSource{}, fixedNow(t))

	if _, err := svc.Dashboard(context.Background(), false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if src.calls != 1 {
		t.Errorf("expected second refresh served from cache, got %d source calls", src.calls)
	}

	// force bypasses the cached snapshot.
	if _, err := svc.Dashboard(context.Background(), true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if src.calls != 2 {
		t.Errorf("expected forced refresh to hit the source, got %d calls", src.calls)
	}
}

func TestDailyVolumeSeries(t *testing.T) {
	src := &mockTransactionSource{transactions: []domain.Transaction{
		tx("tx-1", "2024-03-01T09:00:00Z", domain.StatusCompleted, "alice", 100),
		tx("tx-2", "2024-03-04T09:00:00Z", domain.StatusCompleted, "bob", 50),
	}}
	svc := newService(src, &mockAccountSource{}, &mockUserSource{}, fixedNow(t))

	buckets, err := svc.DailyVolumeSeries(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(buckets) != 4 {
		t.Errorf("expected full min-to-max range of 4 days, got %d", len(buckets))
	}
}

func TestTopCustomers_InvalidLimit(t *testing.T) {
	svc := newService(&mockTransactionSource{}, &mockAccountSource{}, &mockUserSource{}, fixedNow(t))

	_, err := svc.TopCustomers(context.Background(), 0)
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExportDailyVolume(t *testing.T) {
	src := &mockTransactionSource{transactions: []domain.Transaction{
		tx("tx-1", "2024-03-01T09:00:00Z", domain.StatusCompleted, "alice", 1500.25),
	}}
	svc := newService(src, &mockAccountSource{}, &mockUserSource{}, fixedNow(t))

	data, filename, err := svc.ExportDailyVolume(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filename != "daily-volume-2024-03-31.csv" {
		t.Errorf("expected dated filename, got %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export must be valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	if records[0][0] != "Date" {
		t.Errorf("expected Date header, got %q", records[0][0])
	}
	if records[1][2] != "1,500.25" {
		t.Errorf("expected grouped amount '1,500.25', got %q", records[1][2])
	}
}

func TestExportTopCustomers(t *testing.T) {
	src := &mockTransactionSource{transactions: []domain.Transaction{
		tx("tx-1", "2024-03-01T09:00:00Z", domain.StatusCompleted, "alice", 100),
		tx("tx-2", "2024-03-02T09:00:00Z", domain.StatusCompleted, "alice", 50),
		tx("tx-3", "2024-03-02T10:00:00Z", domain.StatusCompleted, "bob", 25),
	}}
	svc := newService(src, &mockAccountSource{}, &mockUserSource{}, fixedNow(t))

	data, filename, err := svc.ExportTopCustomers(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filename != "top-customers-2024-03-31.csv" {
		t.Errorf("expected dated filename, got %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export must be valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d records", len(records))
	}
	if records[1][0] != "alice" || records[2][0] != "bob" {
		t.Errorf("expected alice then bob, got %q / %q", records[1][0], records[2][0])
	}
}

func TestProbe(t *testing.T) {
	svc := newService(
		&mockTransactionSource{},
		&mockAccountSource{},
		&mockUserSource{err: errors.New("unreachable")},
		fixedNow(t),
	)

	if err := svc.Probe(context.Background()); err == nil {
		t.Fatal("expected probe to surface the user source error")
	}
}
