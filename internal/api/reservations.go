package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/biblioteca-app/circ/internal/domain"
)

// CreateReservationRequest queues a student for a book. ReservationDate is
// optional; the service assigns the queue position.
type CreateReservationRequest struct {
	BookISBN         string      `json:"bookIsbn"`
	StudentMatricula string      `json:"studentMatricula"`
	ReservationDate  domain.Time `json:"reservationDate,omitzero"`
}

func reservationPath(id int64) string {
	return "/reservations/" + strconv.FormatInt(id, 10)
}

// ListReservations fetches all reservations.
func (c *Client) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return c.listReservations(ctx, "/reservations")
}

// GetReservation fetches one reservation by id.
func (c *Client) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := c.get(ctx, reservationPath(id), &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListBookReservations fetches one book's queue, positions as the server
// last computed them.
func (c *Client) ListBookReservations(ctx context.Context, isbn string) ([]domain.Reservation, error) {
	return c.listReservations(ctx, "/reservations/book/"+url.PathEscape(isbn))
}

// ListStudentReservations fetches one student's reservations.
func (c *Client) ListStudentReservations(ctx context.Context, matricula string) ([]domain.Reservation, error) {
	return c.listReservations(ctx, "/reservations/student/"+url.PathEscape(matricula))
}

// CreateReservation queues the student; the service assigns the position at
// the tail of the book's queue.
func (c *Client) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := c.post(ctx, "/reservations", req, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CancelReservation removes a reservation and triggers server-side queue
// renumbering for its book. Callers must refetch the queue afterwards
// rather than renumber locally.
func (c *Client) CancelReservation(ctx context.Context, id int64) error {
	return c.delete(ctx, reservationPath(id))
}

// FulfillReservation converts the head-of-queue reservation into a loan.
func (c *Client) FulfillReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := c.put(ctx, reservationPath(id)+"/fulfill", struct{}{}, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *Client) listReservations(ctx context.Context, path string) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	if err := c.get(ctx, path, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}
