package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Matthew12-t/UAS-TST/config"
	"github.com/Matthew12-t/UAS-TST/middleware"
	"github.com/Matthew12-t/UAS-TST/models"
	"github.com/Matthew12-t/UAS-TST/policy"
	"github.com/Matthew12-t/UAS-TST/store"
	"github.com/Matthew12-t/UAS-TST/utils"
)

// Router wires every endpoint with its middleware chain. Kept out of main so
// handler tests run against the exact production routing.
func Router(cfg config.Config, st store.LoanStore, tokens *utils.TokenService, engine *policy.Engine, hub *utils.Hub) http.Handler {
	authHandler := NewAuthHandler(tokens, cfg)
	healthHandler := NewHealthHandler(st)
	loanHandler := NewLoanHandler(engine, hub)
	eventsHandler := NewEventsHandler(hub)

	auth := middleware.Auth(tokens)
	anyRole := middleware.RequireRole(models.RoleMember, models.RoleLibrarian)
	librarianOnly := middleware.RequireRole(models.RoleLibrarian)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /health", auth(http.HandlerFunc(healthHandler.Health)))
	mux.Handle("POST /loan/create", auth(anyRole(http.HandlerFunc(loanHandler.Create))))
	mux.Handle("GET /loan/fines/{userId}", auth(anyRole(http.HandlerFunc(loanHandler.Fines))))
	mux.Handle("POST /loan/return", auth(librarianOnly(http.HandlerFunc(loanHandler.Return))))
	mux.Handle("GET /loan/events", auth(http.HandlerFunc(eventsHandler.Subscribe)))
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(middleware.Metrics(mux))
}
