package utils

import "github.com/google/uuid"

// NewLoanID returns a globally unique loan identifier. The L- prefix is part
// of the wire format; uniqueness comes from the UUID, so collisions are not
// checked on insert.
func NewLoanID() string {
	return "L-" + uuid.NewString()
}
