package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/sequencer"
)

// ReservationService manages waiting queues. Queue positions are owned
// by the remote service; after any mutation the queue is re-read rather
// than patched locally.
type ReservationService struct {
	client    *api.Client
	sequencer *sequencer.Sequencer
	logger    *slog.Logger
}

// NewReservationService creates a new reservation service.
func NewReservationService(client *api.Client, seq *sequencer.Sequencer, logger *slog.Logger) *ReservationService {
	return &ReservationService{
		client:    client,
		sequencer: seq,
		logger:    logger,
	}
}

// All lists every reservation.
func (s *ReservationService) All(ctx context.Context) ([]domain.Reservation, error) {
	return s.client.ListReservations(ctx)
}

// Queue lists one book's waiting queue, positions ascending as the
// service returns them.
func (s *ReservationService) Queue(ctx context.Context, isbn string) ([]domain.Reservation, error) {
	return s.client.ListBookReservations(ctx, isbn)
}

// ForStudent lists one student's reservations.
func (s *ReservationService) ForStudent(ctx context.Context, matricula string) ([]domain.Reservation, error) {
	return s.client.ListStudentReservations(ctx, matricula)
}

// Create places a student at the back of a book's queue.
func (s *ReservationService) Create(ctx context.Context, isbn, matricula string) (*domain.Reservation, error) {
	res, err := s.client.CreateReservation(ctx, api.CreateReservationRequest{
		BookISBN:         isbn,
		StudentMatricula: matricula,
	})
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	s.logger.Info("reservation created",
		"reservation_id", res.ID,
		"book_isbn", isbn,
		"student", matricula,
		"position", res.QueuePosition)
	return res, nil
}

// Cancel removes a reservation and returns the book's renumbered queue.
// Even when the cancel fails the returned queue reflects the service's
// current state.
func (s *ReservationService) Cancel(ctx context.Context, reservationID int64, isbn string) ([]domain.Reservation, error) {
	return s.sequencer.CancelReservation(ctx, reservationID, isbn)
}
