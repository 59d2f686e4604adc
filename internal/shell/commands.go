package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/selector"
	"github.com/biblioteca-app/circ/internal/views"
)

func (s *Shell) showBooks(ctx context.Context, filter string) {
	books, err := s.catalog.Books(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	for _, b := range s.views.Books(books, filter, views.ByTitle) {
		fmt.Fprintf(s.out, "  %-15s %-40s %-25s copies: %d\n", b.ISBN, b.Title, b.Author, b.Quantity)
	}
}

func (s *Shell) showStudents(ctx context.Context, filter string) {
	students, err := s.catalog.Students(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	for _, st := range s.views.Students(students, filter, views.ByName) {
		fmt.Fprintf(s.out, "  %-10s %-30s %s\n", st.Matricula, st.Name, st.Email)
	}
}

// pick runs one typeahead round: type a query, show the bounded
// suggestion list, choose by number.
func pick[T any](s *Shell, sel *selector.Selector[T], label string, render func(T) string) bool {
	query, ok := s.prompt(label)
	if !ok || query == "" {
		return false
	}
	sel.Type(query)
	suggestions := sel.Suggestions()
	if len(suggestions) == 0 {
		fmt.Fprintln(s.out, "no matches")
		sel.Reset()
		return false
	}
	for i, item := range suggestions {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, render(item))
	}
	answer, ok := s.prompt("pick: ")
	if !ok {
		return false
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(suggestions) {
		fmt.Fprintln(s.out, "no selection made")
		sel.Reset()
		return false
	}
	sel.Choose(n - 1)
	return true
}

func (s *Shell) newLoan(ctx context.Context) {
	if !pick(s, s.circulation.Books(), "book: ", domain.Book.Label) {
		return
	}
	if !pick(s, s.circulation.Students(), "student: ", domain.Student.Label) {
		return
	}

	if r := s.circulation.BookEligibility(); r.Unknown {
		fmt.Fprintln(s.out, "note: availability unknown, the service decides on submit")
	} else if !r.Eligible {
		fmt.Fprintln(s.out, "note: no copies appear to be available")
	}
	if r := s.circulation.StudentEligibility(); !r.Unknown && !r.Eligible {
		fmt.Fprintln(s.out, "note: student appears to be at the loan limit")
	}

	answer, ok := s.prompt("issue loan? [y/N] ")
	if !ok || answer != "y" {
		s.circulation.Books().Reset()
		s.circulation.Students().Reset()
		fmt.Fprintln(s.out, "cancelled")
		return
	}
	loan, err := s.circulation.SubmitLoan(ctx, domain.Time{})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "loan %d issued, due %s\n", loan.ID, loan.DueDate.Format("2006-01-02"))
}

func (s *Shell) returnLoan(ctx context.Context) {
	loans, err := s.loans.Active(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Fprintln(s.out, "no open loans")
		return
	}
	for _, l := range s.views.Loans(loans, "", views.ByDueDate) {
		s.printLoan(l)
	}

	answer, ok := s.prompt("loan id: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "invalid id")
		return
	}
	var loan *domain.Loan
	for i := range loans {
		if loans[i].ID == id {
			loan = &loans[i]
			break
		}
	}
	if loan == nil {
		fmt.Fprintln(s.out, "no such open loan")
		return
	}

	chargeFine := false
	consequence := fmt.Sprintf("Return %q?", loan.BookTitle)
	if loan.HasFine() && !loan.Settled() {
		fine := s.views.Money(loan.FineAmount)
		answer, ok = s.prompt(fmt.Sprintf("fine of %s outstanding; charge it? [y=charge/n=forgive] ", fine))
		if !ok {
			return
		}
		chargeFine = answer == "y"
		if chargeFine {
			consequence = fmt.Sprintf("Return %q and collect the fine of %s?", loan.BookTitle, fine)
		} else {
			consequence = fmt.Sprintf("Return %q and forgive the fine of %s?", loan.BookTitle, fine)
		}
	}

	target := *loan
	_, err = s.gate.Arm(fmt.Sprintf("return-loan/%d", id), consequence, func(ctx context.Context) error {
		_, err := s.loans.Return(ctx, target, chargeFine)
		if err == nil {
			fmt.Fprintf(s.out, "loan %d returned\n", id)
		}
		return err
	})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.confirmPending(ctx)
}

func (s *Shell) showOverdue(ctx context.Context) {
	report, err := s.loans.Overdue(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if report.SweepErr != nil {
		fmt.Fprintf(s.out, "warning: overdue sweep failed (%v); list may be stale\n", report.SweepErr)
	}
	if len(report.Loans) == 0 {
		fmt.Fprintln(s.out, "nothing overdue")
		return
	}
	for _, l := range s.views.Loans(report.Loans, "", views.ByOverdueDays) {
		s.printLoan(l)
	}
}

func (s *Shell) showActive(ctx context.Context) {
	loans, err := s.loans.Active(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	for _, l := range s.views.Loans(loans, "", views.ByDueDate) {
		s.printLoan(l)
	}
}

func (s *Shell) printLoan(l domain.Loan) {
	line := fmt.Sprintf("  #%-5d %-30s -> %-25s due %s [%s]",
		l.ID, l.BookTitle, l.StudentName, l.DueDate.Format("2006-01-02"), l.Status)
	if l.HasFine() {
		line += fmt.Sprintf(" fine %s (%s)", s.views.Money(l.FineAmount), l.FineStatus)
	}
	if l.OverdueDays > 0 {
		line += fmt.Sprintf(" %dd late", l.OverdueDays)
	}
	fmt.Fprintln(s.out, line)
}

func (s *Shell) showReservations(ctx context.Context) {
	all, err := s.reservations.All(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	for _, group := range s.views.GroupReservations(all, views.ByTitle) {
		fmt.Fprintf(s.out, "  %s (%s)\n", group.Title, group.ISBN)
		for _, r := range group.Queue {
			fmt.Fprintf(s.out, "    %d. #%d %s\n", r.QueuePosition, r.ID, r.StudentName)
		}
	}
}

func (s *Shell) cancelReservation(ctx context.Context, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "usage: cancel <reservation-id>")
		return
	}

	all, err := s.reservations.All(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	var target *domain.Reservation
	for i := range all {
		if all[i].ID == id {
			target = &all[i]
			break
		}
	}
	if target == nil {
		fmt.Fprintln(s.out, "no such reservation")
		return
	}

	res := *target
	_, err = s.gate.Arm(fmt.Sprintf("cancel-reservation/%d", id),
		fmt.Sprintf("Cancel %s's reservation for %q?", res.StudentName, res.BookTitle),
		func(ctx context.Context) error {
			queue, err := s.reservations.Cancel(ctx, id, res.BookISBN)
			for _, r := range queue {
				fmt.Fprintf(s.out, "  %d. #%d %s\n", r.QueuePosition, r.ID, r.StudentName)
			}
			return err
		})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.confirmPending(ctx)
}

func (s *Shell) settingsCommand(ctx context.Context, arg string) {
	if arg == "set" {
		s.updateSettings(ctx)
		return
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "  loan period: %d days\n  max loans per student: %d\n  fine per day: %s\n",
		cfg.LoanPeriodDays, cfg.MaxLoansPerStudent, s.views.Money(cfg.FinePerDay))
}

func (s *Shell) updateSettings(ctx context.Context) {
	period, ok := s.promptInt("loan period (days): ")
	if !ok {
		return
	}
	maxLoans, ok := s.promptInt("max loans per student: ")
	if !ok {
		return
	}
	fine, ok := s.promptInt("fine per day (centavos): ")
	if !ok {
		return
	}
	updated, err := s.settings.Update(ctx, &domain.Settings{
		LoanPeriodDays:     period,
		MaxLoansPerStudent: maxLoans,
		FinePerDay:         fine,
	})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "policy saved; fine per day now %s\n", s.views.Money(updated.FinePerDay))
}

func (s *Shell) promptInt(label string) (int, bool) {
	answer, ok := s.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		fmt.Fprintln(s.out, "invalid number")
		return 0, false
	}
	return n, true
}

func (s *Shell) showReports(ctx context.Context) {
	if avail, err := s.reports.Availability(ctx); err == nil {
		fmt.Fprintf(s.out, "  books: %d titles, %d copies, %d available\n",
			avail.TotalBooks, avail.TotalCopiesInStock, avail.TotalCopiesAvailable)
	}
	if stats, err := s.reports.LoanStatistics(ctx); err == nil {
		fmt.Fprintf(s.out, "  loans: %d total, %d active, %d overdue\n",
			stats.TotalLoans, stats.ActiveLoans, stats.OverdueLoans)
	}
	if metrics, err := s.reports.StudentMetrics(ctx); err == nil {
		fmt.Fprintf(s.out, "  students: %d registered, %d with active loans\n",
			metrics.TotalStudents, metrics.StudentsWithActiveLoans)
	}
	if analytics, err := s.reports.ReservationAnalytics(ctx); err == nil {
		fmt.Fprintf(s.out, "  reservations: %d active, fulfillment rate %.0f%%\n",
			analytics.ActiveReservations, analytics.FulfillmentRate)
	}
}

func (s *Shell) notify(ctx context.Context, arg string) {
	kind, rest, _ := strings.Cut(arg, " ")
	id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "usage: notify overdue <loan-id> | notify reservation <id>")
		return
	}

	switch kind {
	case "overdue":
		err = s.notices.NotifyOverdue(ctx, id)
	case "reservation":
		err = s.notices.NotifyReservationAvailable(ctx, id)
	default:
		fmt.Fprintln(s.out, "usage: notify overdue <loan-id> | notify reservation <id>")
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "notice sent")
}

func (s *Shell) showHistory(ctx context.Context) {
	loans, err := s.loans.History(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Fprintln(s.out, "no returned loans")
		return
	}
	for _, l := range s.views.Loans(loans, "", views.ByLoanDate) {
		s.printLoan(l)
	}
}

func (s *Shell) deleteLoan(ctx context.Context, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "usage: delloan <loan-id>")
		return
	}

	_, err = s.gate.Arm(fmt.Sprintf("delete-loan/%d", id),
		fmt.Sprintf("Delete loan record %d? Returning is the normal path; this erases the history row.", id),
		func(ctx context.Context) error {
			if err := s.loans.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "loan %d deleted\n", id)
			return nil
		})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.confirmPending(ctx)
}

func (s *Shell) newReservation(ctx context.Context) {
	isbn, ok := s.prompt("book isbn: ")
	if !ok || isbn == "" {
		return
	}
	matricula, ok := s.prompt("student matricula: ")
	if !ok || matricula == "" {
		return
	}
	res, err := s.reservations.Create(ctx, isbn, matricula)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "reservation %d placed, queue position %d\n", res.ID, res.QueuePosition)
}

func (s *Shell) showQueue(ctx context.Context, arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "usage: queue <isbn>")
		return
	}
	queue, err := s.reservations.Queue(ctx, arg)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if len(queue) == 0 {
		fmt.Fprintln(s.out, "no one waiting")
		return
	}
	for _, r := range s.views.Reservations(queue, views.ByPosition) {
		fmt.Fprintf(s.out, "  %d. #%d %s\n", r.QueuePosition, r.ID, r.StudentName)
	}
}

func (s *Shell) fulfillReservation(ctx context.Context, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "usage: fulfill <reservation-id>")
		return
	}
	res, err := s.circulation.FulfillReservation(ctx, id)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "reservation %d fulfilled for %s\n", res.ID, res.StudentName)
}
