package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Matthew12-t/UAS-TST/policy"
	"github.com/Matthew12-t/UAS-TST/utils"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("respond: encode failed:", err)
	}
}

func writeErrorBody(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorBody{Error: kind, Message: message})
}

// writeError translates the error taxonomy into the transport envelope so
// every handler answers the same shape. Unrecognized errors are internal.
func writeError(w http.ResponseWriter, err error) {
	kind := "InternalError"
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, policy.ErrInvalidRequest), errors.Is(err, utils.ErrInvalidIdentity):
		kind, status = "InvalidRequest", http.StatusBadRequest
	case errors.Is(err, utils.ErrInvalidToken):
		kind, status = "Unauthenticated", http.StatusUnauthorized
	case errors.Is(err, policy.ErrForbidden):
		kind, status = "Forbidden", http.StatusForbidden
	case errors.Is(err, policy.ErrLoanLimitReached):
		kind, status = "LoanLimitReached", http.StatusConflict
	case errors.Is(err, policy.ErrBookAlreadyLoaned):
		kind, status = "BookAlreadyLoaned", http.StatusConflict
	case errors.Is(err, policy.ErrNotFound):
		kind, status = "NotFound", http.StatusNotFound
	case errors.Is(err, utils.ErrNoSigningSecret):
		kind = "ConfigError"
	}

	if status == http.StatusInternalServerError {
		log.Println("request failed:", err)
	}
	writeErrorBody(w, status, kind, err.Error())
}
