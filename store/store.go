package store

import (
	"errors"
	"time"

	"github.com/Matthew12-t/UAS-TST/models"
)

var (
	// ErrBookLoaned signals the exclusivity invariant: the book already has
	// an active loan.
	ErrBookLoaned = errors.New("book already on loan")
	// ErrLoanNotFound covers both an unknown loan_id and a loan that was
	// already returned; callers cannot tell the two apart.
	ErrLoanNotFound = errors.New("loan not found")
)

// LoanStore is the persistence gateway the policy engine works against. Any
// other failure than the sentinels above is a storage error and surfaces to
// clients as InternalError.
type LoanStore interface {
	// CountActiveLoans returns how many loans the user holds with no return
	// date.
	CountActiveLoans(userID string) (int, error)
	// FindActiveLoanForBook returns the active loan for a book, or nil when
	// the book is free.
	FindActiveLoanForBook(bookID int) (*models.Loan, error)
	// InsertLoan persists a new active loan. The exclusivity check is redone
	// inside the store so concurrent borrows of one book cannot both land;
	// ErrBookLoaned reports the loser.
	InsertLoan(loan *models.Loan) error
	// ListLoansForUser returns every loan of the user ordered by due_at
	// ascending, returned ones included.
	ListLoansForUser(userID string) ([]models.Loan, error)
	// MarkReturned conditionally sets returned_at on an active loan and
	// returns the updated record. Zero rows affected means ErrLoanNotFound.
	MarkReturned(loanID string, at time.Time) (*models.Loan, error)
	// Ping checks store connectivity for the health endpoint.
	Ping() error
}
