package service

import (
	"context"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/export"
)

// ============================================================
// CSV exports
// ============================================================
// Each export returns the complete in-memory CSV buffer plus the
// download filename with the export date embedded. Serving the bytes
// with a Content-Disposition header is the handler's job.

// ExportDailyVolume renders the daily-volume report.
func (s *AnalyticsService) ExportDailyVolume(ctx context.Context) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.ExportDailyVolume")
	defer span.End()

	buckets, err := s.DailyVolumeSeries(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := export.DailyVolumeReport(buckets)
	if err != nil {
		return nil, "", err
	}
	s.metrics.IncrExport("daily-volume")
	return data, export.Filename("daily-volume", s.opts.Now()), nil
}

// ExportRevenueByType renders the revenue-by-type report.
func (s *AnalyticsService) ExportRevenueByType(ctx context.Context) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.ExportRevenueByType")
	defer span.End()

	slices, err := s.RevenueBreakdown(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := export.RevenueReport(slices)
	if err != nil {
		return nil, "", err
	}
	s.metrics.IncrExport("revenue-by-type")
	return data, export.Filename("revenue-by-type", s.opts.Now()), nil
}

// ExportTopCustomers renders the customer leaderboard report.
func (s *AnalyticsService) ExportTopCustomers(ctx context.Context, n int) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.ExportTopCustomers")
	defer span.End()

	top, err := s.TopCustomers(ctx, n)
	if err != nil {
		return nil, "", err
	}

	data, err := export.CustomerReport(top)
	if err != nil {
		return nil, "", err
	}
	s.metrics.IncrExport("top-customers")
	return data, export.Filename("top-customers", s.opts.Now()), nil
}
