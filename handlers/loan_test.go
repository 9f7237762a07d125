package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matthew12-t/UAS-TST/config"
	"github.com/Matthew12-t/UAS-TST/models"
	"github.com/Matthew12-t/UAS-TST/policy"
	"github.com/Matthew12-t/UAS-TST/store"
	"github.com/Matthew12-t/UAS-TST/utils"
)

type testEnv struct {
	router http.Handler
	tokens *utils.TokenService
	store  *store.MemoryStore
}

func newTestEnv(t *testing.T, secret string) *testEnv {
	t.Helper()
	cfg := config.Config{
		Port:            "0",
		JWTSecret:       secret,
		JWTExpiresIn:    "2h",
		JWTTTL:          2 * time.Hour,
		MaxActiveLoans:  3,
		DefaultLoanDays: 7,
		FinePerDay:      1000,
	}

	st := store.NewMemoryStore()
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	engine := policy.NewEngine(st, cfg)
	hub := utils.NewHub()
	go hub.Run()

	return &testEnv{
		router: Router(cfg, st, tokens, engine, hub),
		tokens: tokens,
		store:  st,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := e.tokens.Issue(userID, role)
	require.NoError(t, err)
	return signed
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestLoginIssuesToken(t *testing.T) {
	env := newTestEnv(t, "test-secret")

	rec := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{UserID: "u1", Role: "member"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Bearer", body["tokenType"])
	assert.Equal(t, "2h", body["expiresIn"])

	payload, ok := body["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", payload["userId"])
	assert.Equal(t, "member", payload["role"])
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t, "test-secret")

	rec := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{UserID: "u1", Role: "guest"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "InvalidRequest", decodeBody(t, rec)["error"])
}

func TestLoginWithoutSigningSecret(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{UserID: "u1", Role: "member"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ConfigError", decodeBody(t, rec)["error"])
}

func TestCreateLoan(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	token := env.token(t, "u1", models.RoleMember)

	rec := env.do(t, http.MethodPost, "/loan/create", token,
		models.CreateLoanRequest{UserID: "u1", BookID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.True(t, strings.HasPrefix(body["loanId"].(string), "L-"))
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, float64(1), body["bookId"])
	assert.NotEmpty(t, body["dueAt"])

	pol, ok := body["policy"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), pol["maxActiveLoans"])
	assert.Equal(t, float64(7), pol["defaultLoanDays"])
	assert.Equal(t, float64(1000), pol["finePerDay"])
}

func TestCreateLoanRequiresAuth(t *testing.T) {
	env := newTestEnv(t, "test-secret")

	rec := env.do(t, http.MethodPost, "/loan/create", "",
		models.CreateLoanRequest{UserID: "u1", BookID: 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthenticated", decodeBody(t, rec)["error"])
}

func TestCreateLoanMemberCannotActForOthers(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	token := env.token(t, "u1", models.RoleMember)

	rec := env.do(t, http.MethodPost, "/loan/create", token,
		models.CreateLoanRequest{UserID: "u2", BookID: 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["error"])
}

func TestCreateLoanMalformedBody(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	token := env.token(t, "u1", models.RoleMember)

	req := httptest.NewRequest(http.MethodPost, "/loan/create",
		strings.NewReader(`{"userId":"u1","bookId":"not-a-number"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "InvalidRequest", decodeBody(t, rec)["error"])
}

func TestCreateLoanConflicts(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	token := env.token(t, "u1", models.RoleMember)
	other := env.token(t, "u2", models.RoleMember)

	rec := env.do(t, http.MethodPost, "/loan/create", token,
		models.CreateLoanRequest{UserID: "u1", BookID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same book again: exclusivity.
	rec = env.do(t, http.MethodPost, "/loan/create", other,
		models.CreateLoanRequest{UserID: "u2", BookID: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "BookAlreadyLoaned", decodeBody(t, rec)["error"])

	// Fill up to the cap, then one more.
	for bookID := 2; bookID <= 3; bookID++ {
		rec = env.do(t, http.MethodPost, "/loan/create", token,
			models.CreateLoanRequest{UserID: "u1", BookID: bookID})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/loan/create", token,
		models.CreateLoanRequest{UserID: "u1", BookID: 4})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "LoanLimitReached", decodeBody(t, rec)["error"])
}

func TestReturnRequiresLibrarian(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	token := env.token(t, "u1", models.RoleMember)

	rec := env.do(t, http.MethodPost, "/loan/return", token,
		models.ReturnLoanRequest{LoanID: "L-whatever"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["error"])
}

func TestReturnLifecycle(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	librarian := env.token(t, "lib1", models.RoleLibrarian)

	rec := env.do(t, http.MethodPost, "/loan/create", librarian,
		models.CreateLoanRequest{UserID: "u1", BookID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	loanID := decodeBody(t, rec)["loanId"].(string)

	rec = env.do(t, http.MethodPost, "/loan/return", librarian,
		models.ReturnLoanRequest{LoanID: loanID})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, loanID, body["loanId"])
	assert.NotEmpty(t, body["returnedAt"])

	// Second return of the same loan: not found.
	rec = env.do(t, http.MethodPost, "/loan/return", librarian,
		models.ReturnLoanRequest{LoanID: loanID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", decodeBody(t, rec)["error"])

	// Unknown loan too.
	rec = env.do(t, http.MethodPost, "/loan/return", librarian,
		models.ReturnLoanRequest{LoanID: "L-unknown"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFinesOwnership(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	member := env.token(t, "u1", models.RoleMember)
	librarian := env.token(t, "lib1", models.RoleLibrarian)

	rec := env.do(t, http.MethodGet, "/loan/fines/u2", member, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/loan/fines/u1", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, float64(1000), body["finePerDay"])

	// Librarians read anyone's report.
	rec = env.do(t, http.MethodGet, "/loan/fines/u2", librarian, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFinesReportBreakdown(t *testing.T) {
	env := newTestEnv(t, "test-secret")
	member := env.token(t, "u1", models.RoleMember)

	due := time.Now().Add(-10 * 24 * time.Hour)
	returned := due.Add(60 * time.Hour) // 2.5 days late
	env.store.Seed(&models.Loan{LoanID: "L-1", UserID: "u1", BookID: 7, DueAt: due, ReturnedAt: &returned})

	rec := env.do(t, http.MethodGet, "/loan/fines/u1", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["loansCount"])
	assert.Equal(t, float64(3000), body["totalFine"])

	breakdown, ok := body["breakdown"].([]interface{})
	require.True(t, ok)
	require.Len(t, breakdown, 1)
	entry := breakdown[0].(map[string]interface{})
	assert.Equal(t, "L-1", entry["loanId"])
	assert.Equal(t, float64(3), entry["lateDays"])
	assert.Equal(t, float64(3000), entry["fine"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "test-secret")

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "health requires a valid token")

	token := env.token(t, "u1", models.RoleMember)
	rec = env.do(t, http.MethodGet, "/health", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "circulation-service", body["service"])
	assert.Equal(t, "ok", body["db"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", user["userId"])
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t, "test-secret")

	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "circulation_http_requests_total")
}
