package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Matthew12-t/UAS-TST/models"
)

// MemoryStore is a mutex-guarded in-memory LoanStore. It backs the unit tests
// and local runs without a database.
type MemoryStore struct {
	mu    sync.Mutex
	loans map[string]*models.Loan
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{loans: make(map[string]*models.Loan)}
}

// Seed loads loans directly, bypassing the exclusivity check. Test setup only.
func (s *MemoryStore) Seed(loans ...*models.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range loans {
		cp := *l
		s.loans[cp.LoanID] = &cp
	}
}

func (s *MemoryStore) CountActiveLoans(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.loans {
		if l.UserID == userID && l.Active() {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) FindActiveLoanForBook(bookID int) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.loans {
		if l.BookID == bookID && l.Active() {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) InsertLoan(loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.loans {
		if l.BookID == loan.BookID && l.Active() {
			return ErrBookLoaned
		}
	}

	cp := *loan
	s.loans[cp.LoanID] = &cp
	return nil
}

func (s *MemoryStore) ListLoansForUser(userID string) ([]models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loans []models.Loan
	for _, l := range s.loans {
		if l.UserID == userID {
			loans = append(loans, *l)
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].DueAt.Before(loans[j].DueAt)
	})
	return loans, nil
}

func (s *MemoryStore) MarkReturned(loanID string, at time.Time) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loans[loanID]
	if !ok || !l.Active() {
		return nil, ErrLoanNotFound
	}

	t := at
	l.ReturnedAt = &t
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) Ping() error {
	return nil
}
