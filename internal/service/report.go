package service

import (
	"context"
	"log/slog"

	"github.com/biblioteca-app/circ/internal/api"
)

// ReportService fetches the aggregate views the service computes.
type ReportService struct {
	client *api.Client
	logger *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(client *api.Client, logger *slog.Logger) *ReportService {
	return &ReportService{client: client, logger: logger}
}

func (s *ReportService) Availability(ctx context.Context) (*api.AvailabilityReport, error) {
	return s.client.GetAvailabilityReport(ctx)
}

func (s *ReportService) StudentMetrics(ctx context.Context) (*api.StudentMetricsReport, error) {
	return s.client.GetStudentMetrics(ctx)
}

func (s *ReportService) LoanStatistics(ctx context.Context) (*api.LoanStatisticsReport, error) {
	return s.client.GetLoanStatistics(ctx)
}

func (s *ReportService) ReservationAnalytics(ctx context.Context) (*api.ReservationAnalyticsReport, error) {
	return s.client.GetReservationAnalytics(ctx)
}
