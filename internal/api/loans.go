package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/biblioteca-app/circ/internal/domain"
)

// CreateLoanRequest creates a loan for a student/book pair. LoanDate is
// optional; when zero the service uses today and derives the due date from
// the configured loan period.
type CreateLoanRequest struct {
	StudentMatricula string      `json:"studentMatricula"`
	BookISBN         string      `json:"bookIsbn"`
	LoanDate         domain.Time `json:"loanDate,omitzero"`
}

type returnLoanRequest struct {
	ReturnDate domain.Time `json:"returnDate,omitzero"`
}

func loanPath(id int64) string {
	return "/loans/" + strconv.FormatInt(id, 10)
}

// IsBookAvailable asks whether the book currently has a loanable copy.
// Advisory only: the authoritative check happens at loan creation.
func (c *Client) IsBookAvailable(ctx context.Context, isbn string) (bool, error) {
	var available bool
	if err := c.get(ctx, "/loans/books/"+url.PathEscape(isbn)+"/availability", &available); err != nil {
		return false, err
	}
	return available, nil
}

// CanStudentBorrow asks whether the student may take another loan.
// Advisory only, same as IsBookAvailable.
func (c *Client) CanStudentBorrow(ctx context.Context, matricula string) (bool, error) {
	var can bool
	if err := c.get(ctx, "/loans/students/"+url.PathEscape(matricula)+"/can-borrow", &can); err != nil {
		return false, err
	}
	return can, nil
}

// CreateLoan issues a loan. The service enforces availability and the
// max-loans-per-student limit, decrementing book quantity on success.
func (c *Client) CreateLoan(ctx context.Context, req CreateLoanRequest) (*domain.Loan, error) {
	var loan domain.Loan
	if err := c.post(ctx, "/loans", req, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReturnLoan marks a loan RETURNED and restocks the copy. The service
// rejects a second return with a precondition failure.
func (c *Client) ReturnLoan(ctx context.Context, id int64, returnDate domain.Time) (*domain.Loan, error) {
	var loan domain.Loan
	if err := c.put(ctx, loanPath(id)+"/return", returnLoanRequest{ReturnDate: returnDate}, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// MarkFinePaid settles a loan's fine as collected. Idempotent; valid only
// while the loan is not yet RETURNED.
func (c *Client) MarkFinePaid(ctx context.Context, id int64) error {
	return c.put(ctx, loanPath(id)+"/fine/paid", struct{}{}, nil)
}

// MarkFineForgiven settles a loan's fine as waived. Idempotent; valid only
// while the loan is not yet RETURNED.
func (c *Client) MarkFineForgiven(ctx context.Context, id int64) error {
	return c.put(ctx, loanPath(id)+"/fine/forgiven", struct{}{}, nil)
}

// DeleteLoan removes a loan record. The service restocks the copy when the
// loan was not yet RETURNED.
func (c *Client) DeleteLoan(ctx context.Context, id int64) error {
	return c.delete(ctx, loanPath(id))
}

// SweepOverdue asks the service to reclassify ACTIVE loans past their due
// date as OVERDUE. Idempotent; must run before an overdue list read that
// wants current data.
func (c *Client) SweepOverdue(ctx context.Context) error {
	// The sweep responds with the reclassified loans; callers always
	// refetch the overdue list afterwards, so the body is discarded.
	return c.get(ctx, "/loans/check-overdue", nil)
}

// ListLoans fetches every loan record.
func (c *Client) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	return c.listLoans(ctx, "/loans")
}

// ListActiveLoans fetches loans with status ACTIVE.
func (c *Client) ListActiveLoans(ctx context.Context) ([]domain.Loan, error) {
	return c.listLoans(ctx, "/loans/active")
}

// ListOverdueLoans fetches loans with status OVERDUE, each carrying the
// computed overdue-day count and fine amount.
func (c *Client) ListOverdueLoans(ctx context.Context) ([]domain.Loan, error) {
	return c.listLoans(ctx, "/loans/overdue")
}

// ListReturnedLoans fetches the loan history (status RETURNED).
func (c *Client) ListReturnedLoans(ctx context.Context) ([]domain.Loan, error) {
	return c.listLoans(ctx, "/loans/returned")
}

// ListOpenLoans fetches ACTIVE and OVERDUE loans together.
func (c *Client) ListOpenLoans(ctx context.Context) ([]domain.Loan, error) {
	return c.listLoans(ctx, "/loans/active-and-overdue")
}

// ListStudentActiveLoans fetches one student's ACTIVE loans.
func (c *Client) ListStudentActiveLoans(ctx context.Context, matricula string) ([]domain.Loan, error) {
	return c.listLoans(ctx, "/loans/active/student/"+url.PathEscape(matricula))
}

func (c *Client) listLoans(ctx context.Context, path string) ([]domain.Loan, error) {
	var loans []domain.Loan
	if err := c.get(ctx, path, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}
