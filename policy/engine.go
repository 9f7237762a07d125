package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Matthew12-t/UAS-TST/config"
	"github.com/Matthew12-t/UAS-TST/models"
	"github.com/Matthew12-t/UAS-TST/store"
	"github.com/Matthew12-t/UAS-TST/utils"
)

const day = 24 * time.Hour

// Engine enforces the circulation rules: the active-loan cap, per-book
// exclusivity, role scoping and fine accrual. Handlers never touch the store
// directly.
type Engine struct {
	store store.LoanStore
	cfg   config.Config
	now   func() time.Time
}

func NewEngine(st store.LoanStore, cfg config.Config) *Engine {
	return &Engine{store: st, cfg: cfg, now: time.Now}
}

// Policy returns the limits currently in force, echoed to clients on loan
// creation.
func (e *Engine) Policy() models.LoanPolicy {
	return models.LoanPolicy{
		MaxActiveLoans:  e.cfg.MaxActiveLoans,
		DefaultLoanDays: e.cfg.DefaultLoanDays,
		FinePerDay:      e.cfg.FinePerDay,
	}
}

// CreateLoan creates an active loan for userID on bookID. Members may only
// borrow for themselves; librarians may act for any user. A nil days falls
// back to the configured default duration.
func (e *Engine) CreateLoan(actor models.Identity, userID string, bookID int, days *int) (*models.Loan, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId must be a non-empty string", ErrInvalidRequest)
	}
	if bookID < 1 {
		return nil, fmt.Errorf("%w: bookId must be a positive integer", ErrInvalidRequest)
	}
	if days != nil && *days < 1 {
		return nil, fmt.Errorf("%w: days must be a positive integer", ErrInvalidRequest)
	}
	if actor.Role == models.RoleMember && userID != actor.UserID {
		return nil, fmt.Errorf("%w: members may only create loans for their own userId", ErrForbidden)
	}

	active, err := e.store.CountActiveLoans(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: counting active loans: %v", ErrInternal, err)
	}
	if active >= e.cfg.MaxActiveLoans {
		return nil, fmt.Errorf("%w: user has %d active loans, the limit is %d",
			ErrLoanLimitReached, active, e.cfg.MaxActiveLoans)
	}

	existing, err := e.store.FindActiveLoanForBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("%w: checking book availability: %v", ErrInternal, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: book %d is on loan and has not been returned",
			ErrBookAlreadyLoaned, bookID)
	}

	loanDays := e.cfg.DefaultLoanDays
	if days != nil {
		loanDays = *days
	}

	loan := &models.Loan{
		LoanID: utils.NewLoanID(),
		UserID: userID,
		BookID: bookID,
		DueAt:  e.now().Add(time.Duration(loanDays) * day),
	}

	if err := e.store.InsertLoan(loan); err != nil {
		if errors.Is(err, store.ErrBookLoaned) {
			return nil, fmt.Errorf("%w: book %d is on loan and has not been returned",
				ErrBookAlreadyLoaned, bookID)
		}
		return nil, fmt.Errorf("%w: inserting loan: %v", ErrInternal, err)
	}

	return loan, nil
}

// Fines recomputes the fine report for targetUserID from loan timestamps.
// Nothing is cached or persisted; the report is current as of the call.
func (e *Engine) Fines(actor models.Identity, targetUserID string) (*models.FineReport, error) {
	if actor.Role == models.RoleMember && targetUserID != actor.UserID {
		return nil, fmt.Errorf("%w: members may only view fines for their own userId", ErrForbidden)
	}

	loans, err := e.store.ListLoansForUser(targetUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing loans: %v", ErrInternal, err)
	}

	now := e.now()
	report := &models.FineReport{
		UserID:     targetUserID,
		FinePerDay: e.cfg.FinePerDay,
		LoansCount: len(loans),
		Breakdown:  make([]models.FineEntry, 0, len(loans)),
	}

	for _, l := range loans {
		end := now
		if l.ReturnedAt != nil {
			end = *l.ReturnedAt
		}

		lateDays := 0
		if late := end.Sub(l.DueAt); late > 0 {
			lateDays = int((late + day - 1) / day) // ceil
		}
		fine := lateDays * e.cfg.FinePerDay
		report.TotalFine += fine

		report.Breakdown = append(report.Breakdown, models.FineEntry{
			LoanID:     l.LoanID,
			BookID:     l.BookID,
			DueAt:      l.DueAt,
			ReturnedAt: l.ReturnedAt,
			LateDays:   lateDays,
			Fine:       fine,
		})
	}

	return report, nil
}

// ReturnLoan marks an active loan returned. Librarian only. The store's
// conditional update is the atomicity guarantee: a second return of the same
// loan loses the race and reads as not found.
func (e *Engine) ReturnLoan(actor models.Identity, loanID string) (*models.Loan, error) {
	if actor.Role != models.RoleLibrarian {
		return nil, fmt.Errorf("%w: only librarians may process returns", ErrForbidden)
	}
	if strings.TrimSpace(loanID) == "" {
		return nil, fmt.Errorf("%w: loanId must be a non-empty string", ErrInvalidRequest)
	}

	loan, err := e.store.MarkReturned(loanID, e.now())
	if err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			return nil, fmt.Errorf("%w: loan not found or already returned", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: marking loan returned: %v", ErrInternal, err)
	}

	return loan, nil
}
