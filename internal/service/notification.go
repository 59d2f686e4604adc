package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biblioteca-app/circ/internal/api"
)

// NotificationService triggers the service-side notices staff can send
// manually: overdue reminders and reservation-available pings.
type NotificationService struct {
	client *api.Client
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(client *api.Client, logger *slog.Logger) *NotificationService {
	return &NotificationService{client: client, logger: logger}
}

// NotifyOverdue asks the service to send an overdue reminder for a loan.
func (s *NotificationService) NotifyOverdue(ctx context.Context, loanID int64) error {
	if err := s.client.NotifyOverdue(ctx, loanID); err != nil {
		return fmt.Errorf("notify overdue: %w", err)
	}
	s.logger.Info("overdue notice sent", "loan_id", loanID)
	return nil
}

// NotifyReservationAvailable tells the first student in a queue that
// their book came back.
func (s *NotificationService) NotifyReservationAvailable(ctx context.Context, reservationID int64) error {
	if err := s.client.NotifyReservationAvailable(ctx, reservationID); err != nil {
		return fmt.Errorf("notify reservation available: %w", err)
	}
	s.logger.Info("reservation notice sent", "reservation_id", reservationID)
	return nil
}
