package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/validation"
)

// SettingsService reads and updates the circulation policy: loan
// period, per-student loan limit, and the daily fine rate.
type SettingsService struct {
	client    *api.Client
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(client *api.Client, validator *validation.Validator, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		client:    client,
		validator: validator,
		logger:    logger,
	}
}

// Get fetches the current policy.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.client.GetSettings(ctx)
}

// Update validates and saves a new policy. The new values apply to
// loans issued from now on; existing due dates are unchanged.
func (s *SettingsService) Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if err := s.validator.Validate(settings); err != nil {
		return nil, err
	}
	updated, err := s.client.UpdateSettings(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.logger.Info("settings updated",
		"loan_period_days", updated.LoanPeriodDays,
		"max_loans", updated.MaxLoansPerStudent,
		"fine_per_day", updated.FinePerDay)
	return updated, nil
}
