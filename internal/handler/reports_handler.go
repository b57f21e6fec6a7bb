package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/analytics"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/service"
)

// ============================================================
// CSV report downloads
// ============================================================
// The service builds the complete buffer and filename; these handlers
// only attach the download headers.

func exportDailyVolumeHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/daily-volume.csv")
		defer span.End()

		data, filename, err := svc.ExportDailyVolume(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeCSV(w, filename, data)
	}
}

func exportRevenueHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/revenue-by-type.csv")
		defer span.End()

		data, filename, err := svc.ExportRevenueByType(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeCSV(w, filename, data)
	}
}

func exportTopCustomersHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/top-customers.csv")
		defer span.End()

		limit := parseLimit(r, analytics.DefaultLeaderboardSize)

		data, filename, err := svc.ExportTopCustomers(ctx, limit)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeCSV(w, filename, data)
	}
}
