package shared

import (
	"github.com/google/uuid"
)

// Caller is the authenticated identity on whose behalf an operation runs.
// It is passed explicitly into every application service call.
type Caller struct {
	UserID  uuid.UUID
	Email   string
	IsStaff bool
}

// NewCaller creates a caller identity
func NewCaller(userID uuid.UUID, email string, isStaff bool) Caller {
	return Caller{UserID: userID, Email: email, IsStaff: isStaff}
}

// Validate rejects anonymous callers
func (c Caller) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	return nil
}

// CanAccess reports whether the caller may see a resource owned by ownerID
func (c Caller) CanAccess(ownerID uuid.UUID) bool {
	return c.IsStaff || c.UserID == ownerID
}
