package models

import "time"

// Loan is a single borrowing record. ReturnedAt is nil while the loan is
// active; it is set exactly once on return and never cleared.
type Loan struct {
	LoanID     string     `json:"loanId" db:"loan_id"`
	UserID     string     `json:"userId" db:"user_id"`
	BookID     int        `json:"bookId" db:"book_id"`
	DueAt      time.Time  `json:"dueAt" db:"due_at"`
	ReturnedAt *time.Time `json:"returnedAt" db:"returned_at"`
}

// Active reports whether the loan has not been returned yet.
func (l *Loan) Active() bool {
	return l.ReturnedAt == nil
}

// LoanPolicy echoes the circulation limits back to clients on loan creation.
type LoanPolicy struct {
	MaxActiveLoans  int `json:"maxActiveLoans"`
	DefaultLoanDays int `json:"defaultLoanDays"`
	FinePerDay      int `json:"finePerDay"`
}

// FineEntry is the per-loan line of a fine report.
type FineEntry struct {
	LoanID     string     `json:"loanId"`
	BookID     int        `json:"bookId"`
	DueAt      time.Time  `json:"dueAt"`
	ReturnedAt *time.Time `json:"returnedAt"`
	LateDays   int        `json:"lateDays"`
	Fine       int        `json:"fine"`
}

// FineReport is computed on demand from loan timestamps; nothing in it is
// persisted.
type FineReport struct {
	UserID     string      `json:"userId"`
	FinePerDay int         `json:"finePerDay"`
	TotalFine  int         `json:"totalFine"`
	LoansCount int         `json:"loansCount"`
	Breakdown  []FineEntry `json:"breakdown"`
}

// LoanEvent is pushed to the borrower's open websocket connection when one of
// their loans changes state.
// At carries the due date for loan.created and the return time for
// loan.returned.
type LoanEvent struct {
	Type   string    `json:"type"` // "loan.created" or "loan.returned"
	LoanID string    `json:"loanId"`
	BookID int       `json:"bookId"`
	At     time.Time `json:"at"`
}
