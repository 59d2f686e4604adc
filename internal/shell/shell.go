// Package shell is the interactive terminal front for the circulation
// desk. It is a thin presentation loop: all behavior lives in the
// services, the shell only prompts, renders lists, and routes every
// destructive action through the confirmation gate.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/biblioteca-app/circ/internal/confirm"
	"github.com/biblioteca-app/circ/internal/logger"
	"github.com/biblioteca-app/circ/internal/service"
	"github.com/biblioteca-app/circ/internal/views"
)

// Shell runs the command loop.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer
	log *logger.Logger

	catalog      *service.CatalogService
	circulation  *service.CirculationService
	loans        *service.LoanService
	reservations *service.ReservationService
	settings     *service.SettingsService
	notices      *service.NotificationService
	reports      *service.ReportService
	gate         *confirm.Gate
	views        *views.Builder
}

// Deps bundles everything the shell presents.
type Deps struct {
	Catalog      *service.CatalogService
	Circulation  *service.CirculationService
	Loans        *service.LoanService
	Reservations *service.ReservationService
	Settings     *service.SettingsService
	Notices      *service.NotificationService
	Reports      *service.ReportService
	Gate         *confirm.Gate
	Views        *views.Builder
}

func New(in io.Reader, out io.Writer, log *logger.Logger, deps Deps) *Shell {
	return &Shell{
		in:           bufio.NewScanner(in),
		out:          out,
		log:          log,
		catalog:      deps.Catalog,
		circulation:  deps.Circulation,
		loans:        deps.Loans,
		reservations: deps.Reservations,
		settings:     deps.Settings,
		notices:      deps.Notices,
		reports:      deps.Reports,
		gate:         deps.Gate,
		views:        deps.Views,
	}
}

// Run processes commands until quit or EOF.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.circulation.Start(ctx); err != nil {
		// Degraded start: commands that need the directory will say so.
		fmt.Fprintf(s.out, "warning: could not load catalog: %v\n", err)
	}
	s.printHelp()

	for {
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			// Scan returns false on EOF and on read failure alike;
			// only the latter carries an error worth reporting.
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch cmd {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			s.printHelp()
		case "books":
			s.showBooks(ctx, arg)
		case "students":
			s.showStudents(ctx, arg)
		case "book":
			s.bookCommand(ctx, arg)
		case "student":
			s.studentCommand(ctx, arg)
		case "loan":
			s.newLoan(ctx)
		case "return":
			s.returnLoan(ctx)
		case "overdue":
			s.showOverdue(ctx)
		case "active":
			s.showActive(ctx)
		case "history":
			s.showHistory(ctx)
		case "delloan":
			s.deleteLoan(ctx, arg)
		case "reservations":
			s.showReservations(ctx)
		case "reserve":
			s.newReservation(ctx)
		case "queue":
			s.showQueue(ctx, arg)
		case "fulfill":
			s.fulfillReservation(ctx, arg)
		case "cancel":
			s.cancelReservation(ctx, arg)
		case "settings":
			s.settingsCommand(ctx, arg)
		case "reports":
			s.showReports(ctx)
		case "notify":
			s.notify(ctx, arg)
		default:
			fmt.Fprintf(s.out, "unknown command %q; try help\n", cmd)
		}
	}
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	line, ok := s.readLine()
	return strings.TrimSpace(line), ok
}

// confirmPending shows the staged consequence and runs it only on an
// explicit "y".
func (s *Shell) confirmPending(ctx context.Context) {
	req := s.gate.Pending()
	if req == nil {
		return
	}
	answer, ok := s.prompt(req.Consequence + " [y/N] ")
	if !ok || !strings.EqualFold(answer, "y") {
		s.gate.Cancel()
		fmt.Fprintln(s.out, "cancelled")
		return
	}
	if err := s.gate.Confirm(ctx); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  books [filter]              list the catalog
  students [filter]           list the roster
  book add|edit|del <isbn>    manage a catalog entry
  student add|edit|del <mat>  manage a student record
  student loans <mat>         list a student's active loans
  loan                        issue a new loan
  return                      return a loan
  overdue                     refresh and list overdue loans
  active                      list open loans
  history                     list returned loans
  delloan <id>                delete a loan record
  reservations                list waiting queues by book
  reserve                     place a reservation
  queue <isbn>                show one book's queue
  fulfill <id>                fulfill a first-in-line reservation
  cancel <id>                 cancel a reservation
  settings [set]              show or change circulation policy
  notify overdue|reservation <id>  send a notice
  reports                     show service reports
  quit
`)
}
