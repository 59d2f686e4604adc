package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/views"
)

func (s *Shell) bookCommand(ctx context.Context, arg string) {
	sub, rest, _ := strings.Cut(arg, " ")
	rest = strings.TrimSpace(rest)

	switch sub {
	case "add":
		s.addBook(ctx)
	case "edit":
		s.editBook(ctx, rest)
	case "del":
		s.deleteBook(ctx, rest)
	default:
		fmt.Fprintln(s.out, "usage: book add | book edit <isbn> | book del <isbn>")
	}
}

func (s *Shell) addBook(ctx context.Context) {
	var book domain.Book
	var ok bool
	if book.ISBN, ok = s.prompt("isbn: "); !ok {
		return
	}
	if book.Title, ok = s.prompt("title: "); !ok {
		return
	}
	if book.Author, ok = s.prompt("author: "); !ok {
		return
	}
	if book.Quantity, ok = s.promptInt("copies: "); !ok {
		return
	}
	if book.Keywords, ok = s.prompt("keywords (optional): "); !ok {
		return
	}

	created, err := s.catalog.CreateBook(ctx, &book)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "added %q (%s)\n", created.Title, created.ISBN)
}

func (s *Shell) editBook(ctx context.Context, isbn string) {
	if isbn == "" {
		fmt.Fprintln(s.out, "usage: book edit <isbn>")
		return
	}
	current, _, err := s.catalog.BookDetail(ctx, isbn)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	book := *current
	var ok bool
	if book.Title, ok = s.promptDefault("title", current.Title); !ok {
		return
	}
	if book.Author, ok = s.promptDefault("author", current.Author); !ok {
		return
	}
	quantity, ok := s.promptDefault("copies", strconv.Itoa(current.Quantity))
	if !ok {
		return
	}
	if book.Quantity, err = strconv.Atoi(quantity); err != nil {
		fmt.Fprintln(s.out, "invalid number")
		return
	}
	if book.Keywords, ok = s.promptDefault("keywords", current.Keywords); !ok {
		return
	}

	updated, err := s.catalog.UpdateBook(ctx, isbn, &book)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "updated %q\n", updated.Title)
}

func (s *Shell) deleteBook(ctx context.Context, isbn string) {
	if isbn == "" {
		fmt.Fprintln(s.out, "usage: book del <isbn>")
		return
	}
	title := isbn
	for _, b := range s.views.Books(s.mustBooks(ctx), "", views.ByTitle) {
		if b.ISBN == isbn {
			title = b.Title
			break
		}
	}

	_, err := s.gate.Arm("delete-book/"+isbn,
		fmt.Sprintf("Delete %q from the catalog? Loans keep their history; the title stops being loanable.", title),
		func(ctx context.Context) error {
			if err := s.catalog.DeleteBook(ctx, isbn); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "deleted %q\n", title)
			return nil
		})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.confirmPending(ctx)
}

func (s *Shell) studentCommand(ctx context.Context, arg string) {
	sub, rest, _ := strings.Cut(arg, " ")
	rest = strings.TrimSpace(rest)

	switch sub {
	case "add":
		s.addStudent(ctx)
	case "edit":
		s.editStudent(ctx, rest)
	case "del":
		s.deleteStudent(ctx, rest)
	case "loans":
		s.showStudentLoans(ctx, rest)
	default:
		fmt.Fprintln(s.out, "usage: student add | student edit <matricula> | student del <matricula> | student loans <matricula>")
	}
}

func (s *Shell) addStudent(ctx context.Context) {
	var student domain.Student
	var ok bool
	if student.Matricula, ok = s.prompt("matricula: "); !ok {
		return
	}
	if student.Name, ok = s.prompt("name: "); !ok {
		return
	}
	if student.CPF, ok = s.prompt("cpf: "); !ok {
		return
	}
	if student.Email, ok = s.prompt("email: "); !ok {
		return
	}
	if student.Phone, ok = s.prompt("phone (optional): "); !ok {
		return
	}

	created, err := s.catalog.CreateStudent(ctx, &student)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "registered %s (%s)\n", created.Name, created.Matricula)
}

func (s *Shell) editStudent(ctx context.Context, matricula string) {
	if matricula == "" {
		fmt.Fprintln(s.out, "usage: student edit <matricula>")
		return
	}
	var current *domain.Student
	for _, st := range s.mustStudents(ctx) {
		if st.Matricula == matricula {
			current = &st
			break
		}
	}
	if current == nil {
		fmt.Fprintln(s.out, "no such student")
		return
	}

	student := *current
	var ok bool
	if student.Name, ok = s.promptDefault("name", current.Name); !ok {
		return
	}
	if student.Email, ok = s.promptDefault("email", current.Email); !ok {
		return
	}
	if student.Phone, ok = s.promptDefault("phone", current.Phone); !ok {
		return
	}

	updated, err := s.catalog.UpdateStudent(ctx, matricula, &student)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "updated %s\n", updated.Name)
}

func (s *Shell) deleteStudent(ctx context.Context, matricula string) {
	if matricula == "" {
		fmt.Fprintln(s.out, "usage: student del <matricula>")
		return
	}
	name := matricula
	for _, st := range s.mustStudents(ctx) {
		if st.Matricula == matricula {
			name = st.Name
			break
		}
	}

	_, err := s.gate.Arm("delete-student/"+matricula,
		fmt.Sprintf("Delete %s's record? The service refuses students with open loans.", name),
		func(ctx context.Context) error {
			if err := s.catalog.DeleteStudent(ctx, matricula); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "deleted %s\n", name)
			return nil
		})
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.confirmPending(ctx)
}

func (s *Shell) showStudentLoans(ctx context.Context, matricula string) {
	if matricula == "" {
		fmt.Fprintln(s.out, "usage: student loans <matricula>")
		return
	}
	loans, err := s.loans.ForStudent(ctx, matricula)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Fprintln(s.out, "no active loans")
		return
	}
	for _, l := range s.views.Loans(loans, "", views.ByDueDate) {
		s.printLoan(l)
	}
}

// promptDefault asks for a field showing its current value; a blank
// answer keeps it.
func (s *Shell) promptDefault(label, current string) (string, bool) {
	answer, ok := s.prompt(fmt.Sprintf("%s [%s]: ", label, current))
	if !ok {
		return "", false
	}
	if answer == "" {
		return current, true
	}
	return answer, true
}

func (s *Shell) mustBooks(ctx context.Context) []domain.Book {
	books, err := s.catalog.Books(ctx)
	if err != nil {
		return nil
	}
	return books
}

func (s *Shell) mustStudents(ctx context.Context) []domain.Student {
	students, err := s.catalog.Students(ctx)
	if err != nil {
		return nil
	}
	return students
}
