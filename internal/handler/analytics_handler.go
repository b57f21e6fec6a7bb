package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/analytics"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/service"
)

// ============================================================
// Response DTOs
// ============================================================
// Exact decimal amounts are converted to display floats here, at the
// presentation boundary. Dates are rendered as calendar-day strings.

type dailyBucketResponse struct {
	Date           string  `json:"date"`
	Count          int     `json:"count"`
	TotalAmount    float64 `json:"totalAmount"`
	CompletedCount int     `json:"completedCount"`
}

type revenueSliceResponse struct {
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type customerResponse struct {
	Actor            string  `json:"actor"`
	TransactionCount int     `json:"transactionCount"`
	TotalAmount      float64 `json:"totalAmount"`
	LastActivity     string  `json:"lastActivity"`
}

func toBucketResponses(buckets []domain.DailyBucket) []dailyBucketResponse {
	out := make([]dailyBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		amount, _ := b.TotalAmount.Round(2).Float64()
		out = append(out, dailyBucketResponse{
			Date:           b.Date.Format("2006-01-02"),
			Count:          b.Count,
			TotalAmount:    amount,
			CompletedCount: b.CompletedCount,
		})
	}
	return out
}

func toRevenueResponses(slices []domain.RevenueSlice) []revenueSliceResponse {
	out := make([]revenueSliceResponse, 0, len(slices))
	for _, s := range slices {
		amount, _ := s.Amount.Round(2).Float64()
		out = append(out, revenueSliceResponse{
			Type:       s.Type,
			Amount:     amount,
			Percentage: s.Percentage,
		})
	}
	return out
}

func toCustomerResponses(aggs []domain.CustomerAggregate) []customerResponse {
	out := make([]customerResponse, 0, len(aggs))
	for _, a := range aggs {
		amount, _ := a.TotalAmount.Round(2).Float64()
		out = append(out, customerResponse{
			Actor:            a.Actor,
			TransactionCount: a.TransactionCount,
			TotalAmount:      amount,
			LastActivity:     a.LastActivity.Format(time.RFC3339),
		})
	}
	return out
}

// ============================================================
// Dashboard — GET /v1/analytics/dashboard
// ============================================================

func dashboardHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/dashboard")
		defer span.End()

		// ?refresh=true forces a new snapshot fetch (explicit pull).
		force := r.URL.Query().Get("refresh") == "true"

		summary, err := svc.Dashboard(ctx, force)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"snapshotId":     summary.SnapshotID,
			"generatedAt":    summary.GeneratedAt.Format(time.RFC3339),
			"windowDays":     summary.WindowDays,
			"kpis":           summary.KPIs,
			"trends":         summary.Trends,
			"dailyBuckets":   toBucketResponses(summary.DailyBuckets),
			"revenueByType":  toRevenueResponses(summary.RevenueByType),
			"topCustomers":   toCustomerResponses(summary.TopCustomers),
			"skippedRecords": summary.SkippedRecords,
		})
	}
}

// ============================================================
// Aggregate series
// ============================================================

func dailyVolumeHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/daily-volume")
		defer span.End()

		buckets, err := svc.DailyVolumeSeries(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"buckets": toBucketResponses(buckets)})
	}
}

func revenueByTypeHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/revenue-by-type")
		defer span.End()

		slices, err := svc.RevenueBreakdown(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"revenue": toRevenueResponses(slices)})
	}
}

func topCustomersHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/top-customers")
		defer span.End()

		limit := parseLimit(r, analytics.DefaultLeaderboardSize)

		top, err := svc.TopCustomers(ctx, limit)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"customers": toCustomerResponses(top)})
	}
}
