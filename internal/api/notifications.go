package api

import "context"

type overdueNotification struct {
	LoanID int64 `json:"loanId"`
}

type reservationNotification struct {
	ReservationID int64 `json:"reservationId"`
}

// NotifyOverdue asks the service to send an overdue reminder for one loan.
// Fire-and-forget: nothing comes back beyond success or failure.
func (c *Client) NotifyOverdue(ctx context.Context, loanID int64) error {
	return c.post(ctx, "/notifications/overdue", overdueNotification{LoanID: loanID}, nil)
}

// NotifyReservationAvailable tells the reserving student their book is
// ready. Fire-and-forget.
func (c *Client) NotifyReservationAvailable(ctx context.Context, reservationID int64) error {
	return c.post(ctx, "/notifications/reservation-available", reservationNotification{ReservationID: reservationID}, nil)
}
