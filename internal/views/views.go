// Package views derives the filtered, sorted, and grouped slices the
// list screens render. Every function is pure: inputs are never
// mutated, output is a fresh slice, and sorting is stable so rows that
// compare equal keep the order the service returned them in.
package views

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/normalize"
)

// SortKey names a column the operator can sort a list by.
type SortKey string

const (
	ByTitle     SortKey = "title"
	ByAuthor    SortKey = "author"
	ByQuantity  SortKey = "quantity"
	ByEntryDate SortKey = "entryDate"

	ByName      SortKey = "name"
	ByMatricula SortKey = "matricula"

	ByDueDate     SortKey = "dueDate"
	ByLoanDate    SortKey = "loanDate"
	ByStudent     SortKey = "student"
	ByBook        SortKey = "book"
	ByFineAmount  SortKey = "fineAmount"
	ByOverdueDays SortKey = "overdueDays"

	ByPosition        SortKey = "position"
	ByReservationDate SortKey = "reservationDate"
)

// Builder derives views with a fixed locale for text collation and
// number formatting.
type Builder struct {
	collator *collate.Collator
	printer  *message.Printer
}

// New builds a view builder for the given BCP 47 locale tag. An
// unparseable tag falls back to Brazilian Portuguese, the locale the
// catalog is in.
func New(locale string) *Builder {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &Builder{
		collator: collate.New(tag, collate.IgnoreCase),
		printer:  message.NewPrinter(tag),
	}
}

// Money renders an amount held in centavos as reais, e.g. 5000 becomes
// "R$ 50,00" under pt-BR. The wire and the domain always carry
// centavos; this is the only place the division happens.
func (b *Builder) Money(centavos int) string {
	return b.printer.Sprintf("R$ %.2f", float64(centavos)/100)
}

func (b *Builder) less(x, y string) bool {
	return b.collator.CompareString(x, y) < 0
}

// Books filters by substring (case and diacritics insensitive) and
// sorts by key. The input slice is left untouched.
func (b *Builder) Books(in []domain.Book, searchTerm string, key SortKey) []domain.Book {
	out := make([]domain.Book, 0, len(in))
	q := normalize.SearchText(searchTerm)
	for _, bk := range in {
		if q == "" || strings.Contains(normalize.SearchText(bk.SearchText()), q) {
			out = append(out, bk)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByAuthor:
			return b.less(out[i].Author, out[j].Author)
		case ByQuantity:
			return out[i].Quantity < out[j].Quantity
		case ByEntryDate:
			return out[i].EntryDate.Before(out[j].EntryDate.Time)
		default:
			return b.less(out[i].Title, out[j].Title)
		}
	})
	return out
}

// Students filters and sorts the student roster.
func (b *Builder) Students(in []domain.Student, searchTerm string, key SortKey) []domain.Student {
	out := make([]domain.Student, 0, len(in))
	q := normalize.SearchText(searchTerm)
	for _, s := range in {
		if q == "" || strings.Contains(normalize.SearchText(s.SearchText()), q) {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByMatricula:
			return out[i].Matricula < out[j].Matricula
		default:
			return b.less(out[i].Name, out[j].Name)
		}
	})
	return out
}

func loanSearchText(l domain.Loan) string {
	return strings.Join([]string{l.StudentName, l.StudentMatricula, l.BookTitle, l.BookAuthor, l.BookISBN}, " ")
}

// Loans filters and sorts a loan list.
func (b *Builder) Loans(in []domain.Loan, searchTerm string, key SortKey) []domain.Loan {
	out := make([]domain.Loan, 0, len(in))
	q := normalize.SearchText(searchTerm)
	for _, l := range in {
		if q == "" || strings.Contains(normalize.SearchText(loanSearchText(l)), q) {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByLoanDate:
			return out[i].LoanDate.Before(out[j].LoanDate.Time)
		case ByStudent:
			return b.less(out[i].StudentName, out[j].StudentName)
		case ByBook:
			return b.less(out[i].BookTitle, out[j].BookTitle)
		case ByFineAmount:
			return out[i].FineAmount < out[j].FineAmount
		case ByOverdueDays:
			return out[i].OverdueDays < out[j].OverdueDays
		default:
			return out[i].DueDate.Before(out[j].DueDate.Time)
		}
	})
	return out
}

// Reservations sorts a flat reservation list.
func (b *Builder) Reservations(in []domain.Reservation, key SortKey) []domain.Reservation {
	out := make([]domain.Reservation, len(in))
	copy(out, in)

	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByReservationDate:
			return out[i].ReservationDate.Before(out[j].ReservationDate.Time)
		case ByStudent:
			return b.less(out[i].StudentName, out[j].StudentName)
		case ByBook:
			return b.less(out[i].BookTitle, out[j].BookTitle)
		default:
			return out[i].QueuePosition < out[j].QueuePosition
		}
	})
	return out
}

// BookQueue is one book's reservation queue, positions ascending.
type BookQueue struct {
	ISBN   string
	Title  string
	Author string
	Queue  []domain.Reservation
}

// GroupReservations groups active reservations by book, positions
// ascending within each group, groups ordered by the given key (book
// title by default, or longest queue first for ByQuantity).
func (b *Builder) GroupReservations(in []domain.Reservation, key SortKey) []BookQueue {
	byISBN := make(map[string]*BookQueue)
	var order []string
	for _, r := range in {
		if r.Status != domain.ReservationActive {
			continue
		}
		g, ok := byISBN[r.BookISBN]
		if !ok {
			g = &BookQueue{ISBN: r.BookISBN, Title: r.BookTitle, Author: r.BookAuthor}
			byISBN[r.BookISBN] = g
			order = append(order, r.BookISBN)
		}
		g.Queue = append(g.Queue, r)
	}

	out := make([]BookQueue, 0, len(order))
	for _, isbn := range order {
		g := byISBN[isbn]
		sort.SliceStable(g.Queue, func(i, j int) bool {
			return g.Queue[i].QueuePosition < g.Queue[j].QueuePosition
		})
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByQuantity:
			return len(out[i].Queue) > len(out[j].Queue)
		default:
			return b.less(out[i].Title, out[j].Title)
		}
	})
	return out
}
