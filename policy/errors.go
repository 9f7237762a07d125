package policy

import "errors"

// Error taxonomy of the loan rules. Handlers map these onto HTTP statuses;
// everything wrapping ErrInternal keeps the storage cause attached for
// diagnostics.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrForbidden         = errors.New("forbidden")
	ErrLoanLimitReached  = errors.New("loan limit reached")
	ErrBookAlreadyLoaned = errors.New("book already loaned")
	ErrNotFound          = errors.New("not found")
	ErrInternal          = errors.New("internal error")
)
