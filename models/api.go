package models

import "time"

type LoginRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	ExpiresIn string   `json:"expiresIn"`
	Payload   Identity `json:"payload"`
}

// CreateLoanRequest is the payload for POST /loan/create. Days is a pointer
// so a missing field can fall back to the configured default.
type CreateLoanRequest struct {
	UserID string `json:"userId"`
	BookID int    `json:"bookId"`
	Days   *int   `json:"days,omitempty"`
}

type CreateLoanResponse struct {
	LoanID string     `json:"loanId"`
	UserID string     `json:"userId"`
	BookID int        `json:"bookId"`
	DueAt  time.Time  `json:"dueAt"`
	Policy LoanPolicy `json:"policy"`
}

type ReturnLoanRequest struct {
	LoanID string `json:"loanId"`
}

type ReturnLoanResponse struct {
	Message    string    `json:"message"`
	LoanID     string    `json:"loanId"`
	ReturnedAt time.Time `json:"returnedAt"`
}
