package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Matthew12-t/UAS-TST/middleware"
	"github.com/Matthew12-t/UAS-TST/models"
	"github.com/Matthew12-t/UAS-TST/policy"
	"github.com/Matthew12-t/UAS-TST/utils"
)

type LoanHandler struct {
	Engine *policy.Engine
	Hub    *utils.Hub
}

func NewLoanHandler(engine *policy.Engine, hub *utils.Hub) *LoanHandler {
	return &LoanHandler{Engine: engine, Hub: hub}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeErrorBody(w, http.StatusUnauthorized, "Unauthenticated", "Missing authenticated identity.")
		return
	}

	var req models.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "InvalidRequest", "userId and bookId are required.")
		return
	}

	loan, err := h.Engine.CreateLoan(identity, req.UserID, req.BookID, req.Days)
	if err != nil {
		writeError(w, err)
		return
	}

	h.notify(loan.UserID, models.LoanEvent{
		Type:   "loan.created",
		LoanID: loan.LoanID,
		BookID: loan.BookID,
		At:     loan.DueAt,
	})

	writeJSON(w, http.StatusCreated, models.CreateLoanResponse{
		LoanID: loan.LoanID,
		UserID: loan.UserID,
		BookID: loan.BookID,
		DueAt:  loan.DueAt,
		Policy: h.Engine.Policy(),
	})
}

func (h *LoanHandler) Fines(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeErrorBody(w, http.StatusUnauthorized, "Unauthenticated", "Missing authenticated identity.")
		return
	}

	report, err := h.Engine.Fines(identity, r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeErrorBody(w, http.StatusUnauthorized, "Unauthenticated", "Missing authenticated identity.")
		return
	}

	var req models.ReturnLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "InvalidRequest", "loanId is required.")
		return
	}

	loan, err := h.Engine.ReturnLoan(identity, req.LoanID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.notify(loan.UserID, models.LoanEvent{
		Type:   "loan.returned",
		LoanID: loan.LoanID,
		BookID: loan.BookID,
		At:     *loan.ReturnedAt,
	})

	writeJSON(w, http.StatusOK, models.ReturnLoanResponse{
		Message:    "Book returned successfully.",
		LoanID:     loan.LoanID,
		ReturnedAt: *loan.ReturnedAt,
	})
}

func (h *LoanHandler) notify(userID string, event models.LoanEvent) {
	content, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.Hub.Notify(userID, content)
}
