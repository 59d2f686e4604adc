package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/sequencer"
)

// LoanService covers the return desk: overdue refresh, the
// settle-then-return flow, and the loan history lists.
type LoanService struct {
	client    *api.Client
	sequencer *sequencer.Sequencer
	logger    *slog.Logger
}

// NewLoanService creates a new loan service.
func NewLoanService(client *api.Client, seq *sequencer.Sequencer, logger *slog.Logger) *LoanService {
	return &LoanService{
		client:    client,
		sequencer: seq,
		logger:    logger,
	}
}

// Overdue refreshes the overdue screen: it asks the service to
// reclassify due loans and then lists them. A failed sweep comes back
// in the report alongside the list.
func (s *LoanService) Overdue(ctx context.Context) (*sequencer.OverdueReport, error) {
	return s.sequencer.RefreshOverdue(ctx)
}

// Return closes a loan. chargeFine selects payment over forgiveness
// when an unpaid fine is outstanding; it is ignored otherwise.
func (s *LoanService) Return(ctx context.Context, loan domain.Loan, chargeFine bool) (*domain.Loan, error) {
	how := sequencer.SettleNone
	if loan.HasFine() && !loan.Settled() {
		if chargeFine {
			how = sequencer.SettlePaid
		} else {
			how = sequencer.SettleForgiven
		}
	}
	return s.sequencer.ReturnWithSettlement(ctx, loan, how, domain.NewTime(time.Now()))
}

// Active lists loans not yet returned, including overdue ones.
func (s *LoanService) Active(ctx context.Context) ([]domain.Loan, error) {
	return s.client.ListOpenLoans(ctx)
}

// History lists returned loans.
func (s *LoanService) History(ctx context.Context) ([]domain.Loan, error) {
	return s.client.ListReturnedLoans(ctx)
}

// All lists every loan the service knows.
func (s *LoanService) All(ctx context.Context) ([]domain.Loan, error) {
	return s.client.ListLoans(ctx)
}

// ForStudent lists a student's active loans.
func (s *LoanService) ForStudent(ctx context.Context, matricula string) ([]domain.Loan, error) {
	return s.client.ListStudentActiveLoans(ctx, matricula)
}

// Delete removes a loan record entirely. Only used to undo mistakes;
// returning is the normal path.
func (s *LoanService) Delete(ctx context.Context, loanID int64) error {
	if err := s.client.DeleteLoan(ctx, loanID); err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	s.logger.Info("loan deleted", "loan_id", loanID)
	return nil
}
