package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/observability"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// The analytics endpoints are the presentation boundary: the dashboard
// pulls JSON aggregates, the reports screen pulls CSV downloads.
func NewRouter(svc *service.AnalyticsService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Dashboard & aggregate series
		// =============================================
		r.Get("/analytics/dashboard", dashboardHandler(svc, logger))
		r.Get("/analytics/daily-volume", dailyVolumeHandler(svc, logger))
		r.Get("/analytics/revenue-by-type", revenueByTypeHandler(svc, logger))
		r.Get("/analytics/top-customers", topCustomersHandler(svc, logger))

		// =============================================
		// CSV report downloads
		// =============================================
		r.Get("/reports/daily-volume.csv", exportDailyVolumeHandler(svc, logger))
		r.Get("/reports/revenue-by-type.csv", exportRevenueHandler(svc, logger))
		r.Get("/reports/top-customers.csv", exportTopCustomersHandler(svc, logger))

		// =============================================
		// Operational snapshot
		// =============================================
		r.Get("/metrics/aggregation", opsSnapshotHandler(metrics))
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "analytics-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if svc != nil {
			start := time.Now()
			err := svc.Probe(ctx)
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				status = "degraded"
				logger.Warn("source probe failed", zap.Error(err))
			}
			services = append(services, domain.ServiceHealth{
				Name: "sources", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func opsSnapshotHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}
