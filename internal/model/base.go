package model

import (
	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 so that sorting by id follows insertion order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Caller is whoever issued the current request, as far as the API can tell.
type Caller struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	// Verified is true when the role came from a signed session token rather than a raw header.
	Verified bool `json:"verified"`
}
