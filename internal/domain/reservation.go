package domain

// ReservationStatus tracks a reservation's lifecycle.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a place in a book's waiting queue. QueuePosition is owned
// by the server: positions are contiguous from 1 among a book's active
// reservations and the server compacts them after a cancellation. The
// client only ever displays the last fetched value.
type Reservation struct {
	ID               int64             `json:"id"`
	BookISBN         string            `json:"bookIsbn"`
	BookTitle        string            `json:"bookTitle,omitempty"`
	BookAuthor       string            `json:"bookAuthor,omitempty"`
	StudentMatricula string            `json:"studentMatricula"`
	StudentName      string            `json:"studentName,omitempty"`
	ReservationDate  Time              `json:"reservationDate,omitzero"`
	QueuePosition    int               `json:"queuePosition"`
	Status           ReservationStatus `json:"status"`
	CreatedAt        Time              `json:"createdAt,omitzero"`
}

// NextInLine reports whether this reservation is at the head of its queue.
func (r *Reservation) NextInLine() bool {
	return r.Status == ReservationActive && r.QueuePosition == 1
}
