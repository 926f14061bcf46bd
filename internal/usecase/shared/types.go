package shared

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizedUser is the write-side snapshot the auth flow needs; the read side
// has its own view types.
type AuthorizedUser struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      string
	IsActive  bool
	LastLogin *time.Time
}
