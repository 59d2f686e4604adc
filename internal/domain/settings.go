package domain

// Settings is the library's circulation policy, read and written as one
// atomic record. The server applies these when issuing loans and computing
// fines; the client only displays and submits them. FinePerDay is in
// centavos, like Loan.FineAmount.
type Settings struct {
	LoanPeriodDays     int `json:"loanPeriodDays" validate:"required,gt=0"`
	MaxLoansPerStudent int `json:"maxLoansPerStudent" validate:"required,gt=0"`
	FinePerDay         int `json:"finePerDay" validate:"required,gt=0"`
}
