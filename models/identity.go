package models

// Roles accepted by the token service. Anything else is rejected at login.
const (
	RoleMember    = "member"
	RoleLibrarian = "librarian"
)

// Identity is the authenticated {userId, role} pair derived from a verified
// token. It is never persisted.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// ValidRole reports whether role is one of the two roles the service knows.
func ValidRole(role string) bool {
	return role == RoleMember || role == RoleLibrarian
}
