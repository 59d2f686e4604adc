// Package sequencer runs the multi-step circulation protocols whose
// step order is a correctness requirement, not a convenience: a fine
// must be settled before its loan is returned, the overdue sweep must
// run before the overdue list is fetched, and a cancelled reservation
// queue must be re-read from the service because positions renumber
// server-side.
package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/errors"
)

// API is the slice of the service client the sequencer drives.
type API interface {
	SweepOverdue(ctx context.Context) error
	ListOverdueLoans(ctx context.Context) ([]domain.Loan, error)
	MarkFinePaid(ctx context.Context, loanID int64) error
	MarkFineForgiven(ctx context.Context, loanID int64) error
	ReturnLoan(ctx context.Context, loanID int64, returnDate domain.Time) (*domain.Loan, error)
	CancelReservation(ctx context.Context, reservationID int64) error
	ListBookReservations(ctx context.Context, isbn string) ([]domain.Reservation, error)
}

// Sequencer serializes the step protocols. At most one sequence runs
// per entity at a time; a second attempt while the first is in flight
// is rejected rather than queued.
type Sequencer struct {
	api    API
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(api API, logger *slog.Logger) *Sequencer {
	return &Sequencer{
		api:      api,
		logger:   logger.With("component", "sequencer"),
		inFlight: make(map[string]bool),
	}
}

func (s *Sequencer) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return errors.Conflict(fmt.Sprintf("operation already in progress for %s", key))
	}
	s.inFlight[key] = true
	return nil
}

func (s *Sequencer) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

// OverdueReport is the outcome of an overdue refresh. SweepErr is
// non-nil when the sweep failed; the list is still fetched so the
// operator sees the last state the service knew, possibly missing loans
// that tipped overdue since the last successful sweep.
type OverdueReport struct {
	Loans    []domain.Loan
	SweepErr error
}

// RefreshOverdue asks the service to reclassify active loans past
// their due date, then fetches the overdue list. A sweep failure is
// reported but never hides the list.
func (s *Sequencer) RefreshOverdue(ctx context.Context) (*OverdueReport, error) {
	report := &OverdueReport{}

	if err := s.api.SweepOverdue(ctx); err != nil {
		s.logger.Warn("overdue sweep failed, listing anyway", "error", err)
		report.SweepErr = err
	}

	loans, err := s.api.ListOverdueLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing overdue loans: %w", err)
	}
	report.Loans = loans
	return report, nil
}

// Settlement says how an outstanding fine is closed out before return.
type Settlement int

const (
	// SettleNone: the loan carries no fine, return directly.
	SettleNone Settlement = iota
	// SettlePaid: the student paid, record the payment first.
	SettlePaid
	// SettleForgiven: staff waived the fine, record the waiver first.
	SettleForgiven
)

// ReturnWithSettlement closes a loan. When the loan carries an unpaid
// fine the settlement step runs first, and only a successful settlement
// is followed by the return. A failed settlement leaves the loan open
// with the fine still pending.
func (s *Sequencer) ReturnWithSettlement(ctx context.Context, loan domain.Loan, how Settlement, returnDate domain.Time) (*domain.Loan, error) {
	key := fmt.Sprintf("loan/%d", loan.ID)
	if err := s.acquire(key); err != nil {
		return nil, err
	}
	defer s.release(key)

	if loan.HasFine() && !loan.Settled() {
		switch how {
		case SettlePaid:
			if err := s.api.MarkFinePaid(ctx, loan.ID); err != nil {
				return nil, fmt.Errorf("settling fine on loan %d: %w", loan.ID, err)
			}
		case SettleForgiven:
			if err := s.api.MarkFineForgiven(ctx, loan.ID); err != nil {
				return nil, fmt.Errorf("forgiving fine on loan %d: %w", loan.ID, err)
			}
		default:
			return nil, errors.Preconditionf("loan %d has an unsettled fine of %d centavos", loan.ID, loan.FineAmount)
		}
		s.logger.Info("fine settled", "loan_id", loan.ID, "amount_centavos", loan.FineAmount, "forgiven", how == SettleForgiven)
	}

	returned, err := s.api.ReturnLoan(ctx, loan.ID, returnDate)
	if err != nil {
		return nil, fmt.Errorf("returning loan %d: %w", loan.ID, err)
	}
	s.logger.Info("loan returned", "loan_id", loan.ID, "book_isbn", loan.BookISBN)
	return returned, nil
}

// CancelReservation cancels a reservation and re-reads the book's
// queue from the service. Queue positions renumber on the server, so
// the refetched list is the only trustworthy view. When the cancel
// itself fails the queue is still refetched: the local copy may already
// be stale for other reasons.
func (s *Sequencer) CancelReservation(ctx context.Context, reservationID int64, bookISBN string) ([]domain.Reservation, error) {
	key := fmt.Sprintf("reservation/%d", reservationID)
	if err := s.acquire(key); err != nil {
		return nil, err
	}
	defer s.release(key)

	cancelErr := s.api.CancelReservation(ctx, reservationID)
	if cancelErr != nil {
		s.logger.Warn("reservation cancel failed", "reservation_id", reservationID, "error", cancelErr)
	}

	queue, listErr := s.api.ListBookReservations(ctx, bookISBN)
	if cancelErr != nil {
		return queue, fmt.Errorf("cancelling reservation %d: %w", reservationID, cancelErr)
	}
	if listErr != nil {
		return nil, fmt.Errorf("refreshing queue for %s: %w", bookISBN, listErr)
	}
	s.logger.Info("reservation cancelled", "reservation_id", reservationID, "book_isbn", bookISBN, "queue_len", len(queue))
	return queue, nil
}
