package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/Matthew12-t/UAS-TST/models"
	"github.com/Matthew12-t/UAS-TST/utils"
)

type ctxKey string

const identityCtxKey ctxKey = "identity"

// IdentityFrom returns the authenticated identity stored by Auth.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(models.Identity)
	return identity, ok
}

// Auth extracts and verifies the bearer token, then stores the identity in
// the request context. Only the Authorization header is consulted.
func Auth(tokens *utils.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				writeGuardError(w, http.StatusUnauthorized, "Unauthenticated",
					"Bearer token not found. Send Authorization: Bearer <token>.")
				return
			}

			identity, err := tokens.Verify(strings.TrimSpace(header[len(prefix):]))
			if err != nil {
				log.Println("auth: rejected token:", err)
				writeGuardError(w, http.StatusUnauthorized, "Unauthenticated",
					"Token is invalid or has expired.")
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the given roles. Runs after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeGuardError(w, http.StatusUnauthorized, "Unauthenticated",
					"Bearer token not found. Send Authorization: Bearer <token>.")
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Println("auth: role", identity.Role, "denied on", r.URL.Path)
			writeGuardError(w, http.StatusForbidden, "Forbidden",
				"You do not have permission to access this endpoint.")
		})
	}
}

func writeGuardError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   kind,
		"message": message,
	})
}
