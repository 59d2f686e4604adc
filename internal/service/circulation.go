package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/directory"
	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/eligibility"
	"github.com/biblioteca-app/circ/internal/errors"
	"github.com/biblioteca-app/circ/internal/selector"
)

// CirculationService runs the new-loan form: a book picker, a student
// picker, the advisory eligibility probes tied to them, and the final
// submission. Committing a selection starts the matching probe;
// clearing it discards any answer still in flight.
type CirculationService struct {
	client    *api.Client
	directory *directory.Directory
	logger    *slog.Logger

	books        *selector.Selector[domain.Book]
	students     *selector.Selector[domain.Student]
	bookCheck    *eligibility.Checker
	studentCheck *eligibility.Checker
}

// NewCirculationService wires the pickers to the directory and the
// eligibility probes to the selection events.
func NewCirculationService(client *api.Client, dir *directory.Directory, logger *slog.Logger) *CirculationService {
	s := &CirculationService{
		client:    client,
		directory: dir,
		logger:    logger,
	}

	s.books = selector.New(dir.SearchBooks, domain.Book.Label)
	s.students = selector.New(dir.SearchStudents, domain.Student.Label)
	s.bookCheck = eligibility.New(client.IsBookAvailable, logger)
	s.studentCheck = eligibility.New(client.CanStudentBorrow, logger)

	s.books.OnChange(func(b *domain.Book) {
		if b == nil {
			s.bookCheck.Clear()
			return
		}
		s.bookCheck.Check(context.Background(), b.ISBN)
	})
	s.students.OnChange(func(st *domain.Student) {
		if st == nil {
			s.studentCheck.Clear()
			return
		}
		s.studentCheck.Check(context.Background(), st.Matricula)
	})

	return s
}

// Start loads the session directory the pickers search against.
func (s *CirculationService) Start(ctx context.Context) error {
	return s.directory.Load(ctx)
}

func (s *CirculationService) Books() *selector.Selector[domain.Book] { return s.books }

func (s *CirculationService) Students() *selector.Selector[domain.Student] { return s.students }

// BookEligibility is the advisory availability answer for the selected
// book.
func (s *CirculationService) BookEligibility() eligibility.Result {
	return s.bookCheck.Result()
}

// StudentEligibility is the advisory can-borrow answer for the selected
// student.
func (s *CirculationService) StudentEligibility() eligibility.Result {
	return s.studentCheck.Result()
}

// SubmitLoan issues a loan for the committed selections. The advisory
// answers never block submission; the service is the authority and its
// rejection comes back as a typed error.
func (s *CirculationService) SubmitLoan(ctx context.Context, loanDate domain.Time) (*domain.Loan, error) {
	book := s.books.Selection()
	student := s.students.Selection()
	if book == nil || student == nil {
		return nil, errors.Validation("select a book and a student before issuing a loan")
	}

	loan, err := s.client.CreateLoan(ctx, api.CreateLoanRequest{
		StudentMatricula: student.Matricula,
		BookISBN:         book.ISBN,
		LoanDate:         loanDate,
	})
	if err != nil {
		return nil, fmt.Errorf("issue loan: %w", err)
	}

	s.logger.Info("loan issued",
		"loan_id", loan.ID,
		"book_isbn", book.ISBN,
		"student", student.Matricula,
		"due", loan.DueDate)

	s.books.Reset()
	s.students.Reset()
	s.reloadDirectory(ctx)
	return loan, nil
}

// FulfillReservation converts a first-in-line reservation into a loan
// on the service side.
func (s *CirculationService) FulfillReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	res, err := s.client.FulfillReservation(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("fulfill reservation: %w", err)
	}
	s.logger.Info("reservation fulfilled", "reservation_id", res.ID, "book_isbn", res.BookISBN)
	s.reloadDirectory(ctx)
	return res, nil
}

func (s *CirculationService) reloadDirectory(ctx context.Context) {
	if err := s.directory.Reload(ctx); err != nil {
		s.logger.Warn("directory reload failed", "error", err)
	}
}
