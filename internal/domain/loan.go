package domain

// LoanStatus tracks a loan through its lifecycle. ACTIVE becomes OVERDUE
// only after the server-side sweep reclassifies it; RETURNED is terminal.
type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanOverdue  LoanStatus = "OVERDUE"
	LoanReturned LoanStatus = "RETURNED"
)

// FineStatus is the disposition of a loan's monetary penalty. It may only
// move to paid or forgiven while the loan is not yet RETURNED; after that
// it is immutable.
type FineStatus string

const (
	FineNone     FineStatus = "none"
	FinePending  FineStatus = "pending"
	FinePaid     FineStatus = "paid"
	FineForgiven FineStatus = "forgiven"
)

// Loan is the service's denormalized loan record: entity references come
// with display fields so lists render without extra lookups. FineAmount is
// in centavos, zero when no fine accrued; conversion to reais happens only
// at the display boundary.
type Loan struct {
	ID               int64      `json:"id"`
	StudentMatricula string     `json:"studentMatricula"`
	StudentName      string     `json:"studentName,omitempty"`
	BookISBN         string     `json:"bookIsbn"`
	BookTitle        string     `json:"bookTitle,omitempty"`
	BookAuthor       string     `json:"bookAuthor,omitempty"`
	LoanDate         Time       `json:"loanDate,omitzero"`
	DueDate          Time       `json:"dueDate,omitzero"`
	ReturnDate       Time       `json:"returnDate,omitzero"`
	Status           LoanStatus `json:"status"`
	OverdueDays      int        `json:"overdueDays,omitempty"`
	FineAmount       int        `json:"fineAmount,omitempty"`
	FineStatus       FineStatus `json:"fineStatus,omitempty"`
}

// HasFine reports whether returning this loan requires a settlement step
// (mark paid or forgiven) before the return call.
func (l *Loan) HasFine() bool { return l.FineAmount > 0 }

// Settled reports whether the fine has a terminal disposition.
func (l *Loan) Settled() bool {
	return l.FineStatus == FinePaid || l.FineStatus == FineForgiven
}
