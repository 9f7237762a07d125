package handlers

import (
	"log"
	"net/http"

	"github.com/Matthew12-t/UAS-TST/middleware"
	"github.com/Matthew12-t/UAS-TST/store"
)

const serviceName = "circulation-service"

type HealthHandler struct {
	Store store.LoanStore
}

func NewHealthHandler(st store.LoanStore) *HealthHandler {
	return &HealthHandler{Store: st}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	if err := h.Store.Ping(); err != nil {
		log.Println("health: store ping failed:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"service": serviceName,
			"db":      "error",
			"detail":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": serviceName,
		"db":      "ok",
		"user":    identity,
	})
}
