package store

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/Matthew12-t/UAS-TST/models"
)

// MySQLStore keeps the single loans relation. Timestamps are stored in UTC;
// the DSN must carry parseTime=true so DATETIME columns scan into time.Time.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) Ping() error {
	return s.db.Ping()
}

func (s *MySQLStore) InitSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS loans (
		loan_id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		book_id INT NOT NULL,
		due_at DATETIME(3) NOT NULL,
		returned_at DATETIME(3),
		INDEX idx_loans_user (user_id),
		INDEX idx_loans_book (book_id)
	)`)
	return err
}

func (s *MySQLStore) CountActiveLoans(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM loans WHERE user_id = ? AND returned_at IS NULL",
		userID,
	).Scan(&count)
	return count, err
}

func (s *MySQLStore) FindActiveLoanForBook(bookID int) (*models.Loan, error) {
	row := s.db.QueryRow(
		"SELECT loan_id, user_id, book_id, due_at, returned_at FROM loans WHERE book_id = ? AND returned_at IS NULL",
		bookID,
	)
	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *MySQLStore) InsertLoan(loan *models.Loan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Exclusivity re-checked under a row lock so two concurrent borrows of
	// the same book cannot both commit.
	var existing string
	err = tx.QueryRow(
		"SELECT loan_id FROM loans WHERE book_id = ? AND returned_at IS NULL FOR UPDATE",
		loan.BookID,
	).Scan(&existing)
	if err == nil {
		return ErrBookLoaned
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO loans (loan_id, user_id, book_id, due_at) VALUES (?, ?, ?, ?)",
		loan.LoanID, loan.UserID, loan.BookID, loan.DueAt.UTC(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *MySQLStore) ListLoansForUser(userID string) ([]models.Loan, error) {
	rows, err := s.db.Query(
		"SELECT loan_id, user_id, book_id, due_at, returned_at FROM loans WHERE user_id = ? ORDER BY due_at ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var l models.Loan
		var returnedAt sql.NullTime
		if err := rows.Scan(&l.LoanID, &l.UserID, &l.BookID, &l.DueAt, &returnedAt); err != nil {
			return nil, err
		}
		if returnedAt.Valid {
			t := returnedAt.Time
			l.ReturnedAt = &t
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (s *MySQLStore) MarkReturned(loanID string, at time.Time) (*models.Loan, error) {
	res, err := s.db.Exec(
		"UPDATE loans SET returned_at = ? WHERE loan_id = ? AND returned_at IS NULL",
		at.UTC(), loanID,
	)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrLoanNotFound
	}

	row := s.db.QueryRow(
		"SELECT loan_id, user_id, book_id, due_at, returned_at FROM loans WHERE loan_id = ?",
		loanID,
	)
	return scanLoan(row)
}

func scanLoan(row *sql.Row) (*models.Loan, error) {
	var l models.Loan
	var returnedAt sql.NullTime
	if err := row.Scan(&l.LoanID, &l.UserID, &l.BookID, &l.DueAt, &returnedAt); err != nil {
		return nil, err
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		l.ReturnedAt = &t
	}
	return &l, nil
}
