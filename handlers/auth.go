package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Matthew12-t/UAS-TST/config"
	"github.com/Matthew12-t/UAS-TST/models"
	"github.com/Matthew12-t/UAS-TST/utils"
)

type AuthHandler struct {
	Tokens *utils.TokenService
	Cfg    config.Config
}

func NewAuthHandler(tokens *utils.TokenService, cfg config.Config) *AuthHandler {
	return &AuthHandler{Tokens: tokens, Cfg: cfg}
}

// Login issues a bearer token for the posted {userId, role}. There is no
// credential check behind it; the endpoint exists so clients can mint tokens
// for the circulation endpoints.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.Tokens.Configured() {
		writeError(w, utils.ErrNoSigningSecret)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "InvalidRequest", "userId and role are required.")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeErrorBody(w, http.StatusBadRequest, "InvalidRequest", "userId must be a non-empty string.")
		return
	}
	if !models.ValidRole(req.Role) {
		writeErrorBody(w, http.StatusBadRequest, "InvalidRequest", `role must be "member" or "librarian".`)
		return
	}

	token, err := h.Tokens.Issue(req.UserID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.Cfg.JWTExpiresIn,
		Payload:   models.Identity{UserID: req.UserID, Role: req.Role},
	})
}
