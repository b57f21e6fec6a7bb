package analytics_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/analytics"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

func statusTx(id, timestamp, status string, amount float64) domain.Transaction {
	tx := mkTx(id, timestamp, amount)
	tx.Status = status
	return tx
}

func TestSuccessRate_MixedStatuses(t *testing.T) {
	day := mustDay(t, "2024-03-01")
	txns := []domain.Transaction{
		statusTx("tx-1", "2024-03-01T09:00:00Z", domain.StatusCompleted, 100),
		statusTx("tx-2", "2024-03-01T10:00:00Z", domain.StatusCompleted, 50),
		statusTx("tx-3", "2024-03-01T11:00:00Z", domain.StatusPending, 30),
		statusTx("tx-4", "2024-03-01T12:00:00Z", domain.StatusFailed, 20),
		// Different day, must not count.
		statusTx("tx-5", "2024-03-02T09:00:00Z", domain.StatusCompleted, 10),
	}

	rate := analytics.SuccessRate(txns, day)

	if rate != 50 {
		t.Errorf("expected 50%% success rate, got %f", rate)
	}
}

func TestSuccessRate_MissingStatusCountsAsCompleted(t *testing.T) {
	day := mustDay(t, "2024-03-01")
	txns := []domain.Transaction{
		statusTx("tx-1", "2024-03-01T09:00:00Z", "", 100),
		statusTx("tx-2", "2024-03-01T10:00:00Z", domain.StatusFailed, 50),
	}

	rate := analytics.SuccessRate(txns, day)

	if rate != 50 {
		t.Errorf("expected missing status to resolve as completed, rate 50, got %f", rate)
	}
}

func TestSuccessRate_EmptyDay(t *testing.T) {
	rate := analytics.SuccessRate(nil, mustDay(t, "2024-03-01"))
	if rate != 0 {
		t.Errorf("expected 0 for a day with no transactions, got %f", rate)
	}
}

func TestAverageLatency(t *testing.T) {
	day := mustDay(t, "2024-03-01")
	txns := []domain.Transaction{
		{
			ID:        "tx-1",
			Timestamp: "2024-03-01T09:00:00Z",
			Status:    domain.StatusCompleted,
			CreatedAt: "2024-03-01T09:00:00Z",
			UpdatedAt: "2024-03-01T09:00:00.4Z",
		},
		{
			ID:        "tx-2",
			Timestamp: "2024-03-01T10:00:00Z",
			Status:    domain.StatusCompleted,
			CreatedAt: "2024-03-01T10:00:00Z",
			UpdatedAt: "2024-03-01T10:00:00.6Z",
		},
		// Not completed, excluded from the latency sample.
		{
			ID:        "tx-3",
			Timestamp: "2024-03-01T11:00:00Z",
			Status:    domain.StatusPending,
			CreatedAt: "2024-03-01T11:00:00Z",
			UpdatedAt: "2024-03-01T11:00:05Z",
		},
		// Missing updatedAt, excluded.
		{
			ID:        "tx-4",
			Timestamp: "2024-03-01T12:00:00Z",
			Status:    domain.StatusCompleted,
			CreatedAt: "2024-03-01T12:00:00Z",
		},
	}

	avg := analytics.AverageLatency(txns, day)

	if avg != 500 {
		t.Errorf("expected 500ms average latency, got %f", avg)
	}
}

func TestAverageLatency_NoSamples(t *testing.T) {
	avg := analytics.AverageLatency(nil, mustDay(t, "2024-03-01"))
	if avg != 0 {
		t.Errorf("expected 0 with no samples, got %f", avg)
	}
}

func TestDailyVolume(t *testing.T) {
	day := mustDay(t, "2024-03-01")
	txns := []domain.Transaction{
		mkTx("tx-1", "2024-03-01T09:00:00Z", 100),
		mkTx("tx-2", "2024-03-01T18:00:00Z", 50),
		mkTx("tx-3", "2024-03-02T09:00:00Z", 9000),
	}

	v := analytics.DailyVolume(txns, day)

	if v.Count != 2 {
		t.Errorf("expected count 2, got %d", v.Count)
	}
	if !v.TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected total 150, got %s", v.TotalAmount)
	}
}

func TestDailyVolume_IncludesAllStatuses(t *testing.T) {
	day := mustDay(t, "2024-03-01")
	txns := []domain.Transaction{
		statusTx("tx-1", "2024-03-01T09:00:00Z", domain.StatusCompleted, 100),
		statusTx("tx-2", "2024-03-01T10:00:00Z", domain.StatusFailed, 40),
		statusTx("tx-3", "2024-03-01T11:00:00Z", domain.StatusPending, 10),
	}

	v := analytics.DailyVolume(txns, day)

	if v.Count != 3 {
		t.Errorf("expected failed and pending transactions included, count 3, got %d", v.Count)
	}
	if !v.TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected total 150, got %s", v.TotalAmount)
	}
}

func typedTx(id, timestamp, txType string, amount float64) domain.Transaction {
	tx := mkTx(id, timestamp, amount)
	tx.Type = txType
	return tx
}

func TestRevenueByType(t *testing.T) {
	txns := []domain.Transaction{
		typedTx("tx-1", "2024-03-01T09:00:00Z", domain.TypeDeposit, 300),
		typedTx("tx-2", "2024-03-01T10:00:00Z", domain.TypeWithdrawal, 100),
		typedTx("tx-3", "2024-03-02T09:00:00Z", domain.TypeDeposit, 100),
		typedTx("tx-4", "2024-03-02T10:00:00Z", domain.TypeTransfer, 500),
	}

	slices, skipped := analytics.RevenueByType(txns, analytics.PeriodAll)

	if skipped != 0 {
		t.Errorf("expected no skipped records, got %d", skipped)
	}
	if len(slices) != 3 {
		t.Fatalf("expected 3 types, got %d", len(slices))
	}

	// Sorted descending by amount.
	if slices[0].Type != domain.TypeTransfer || !slices[0].Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected TRANSFER 500 first, got %s %s", slices[0].Type, slices[0].Amount)
	}
	if slices[1].Type != domain.TypeDeposit || !slices[1].Amount.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected DEPOSIT 400 second, got %s %s", slices[1].Type, slices[1].Amount)
	}

	// Percentages computed against the grouped total (1000).
	if slices[0].Percentage != 50 {
		t.Errorf("expected 50%% for TRANSFER, got %f", slices[0].Percentage)
	}
	if slices[1].Percentage != 40 {
		t.Errorf("expected 40%% for DEPOSIT, got %f", slices[1].Percentage)
	}
	if slices[2].Percentage != 10 {
		t.Errorf("expected 10%% for WITHDRAWAL, got %f", slices[2].Percentage)
	}
}

func TestRevenueByType_PeriodFilter(t *testing.T) {
	today := mustDay(t, "2024-03-31")
	txns := []domain.Transaction{
		typedTx("tx-1", "2024-03-30T09:00:00Z", domain.TypeDeposit, 100),
		typedTx("tx-2", "2024-01-15T09:00:00Z", domain.TypeDeposit, 9999),
	}

	slices, _ := analytics.RevenueByType(txns, analytics.PeriodLastDays(7, today))

	if len(slices) != 1 {
		t.Fatalf("expected 1 type inside the window, got %d", len(slices))
	}
	if !slices[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected only in-window amount 100, got %s", slices[0].Amount)
	}
}

func TestRevenueByType_SkipsUnparseable(t *testing.T) {
	txns := []domain.Transaction{
		typedTx("tx-1", "2024-03-01T09:00:00Z", domain.TypeDeposit, 100),
		typedTx("tx-2", "", domain.TypeDeposit, 50),
		typedTx("tx-3", "someday", domain.TypeTransfer, 25),
	}

	slices, skipped := analytics.RevenueByType(txns, analytics.PeriodAll)

	if skipped != 2 {
		t.Errorf("expected 2 skipped records, got %d", skipped)
	}
	if len(slices) != 1 {
		t.Fatalf("expected 1 type, got %d", len(slices))
	}
	if slices[0].Percentage != 100 {
		t.Errorf("expected 100%% for the sole type, got %f", slices[0].Percentage)
	}
}

func TestRevenueByType_Empty(t *testing.T) {
	slices, skipped := analytics.RevenueByType(nil, analytics.PeriodAll)

	if len(slices) != 0 {
		t.Errorf("expected empty breakdown, got %d slices", len(slices))
	}
	if skipped != 0 {
		t.Errorf("expected no skipped records, got %d", skipped)
	}
	for _, s := range slices {
		if math.IsNaN(s.Percentage) {
			t.Error("percentage must never be NaN")
		}
	}
}
