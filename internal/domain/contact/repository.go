package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ContactRepository persists contacts. Lookups scoped by owner return
// shared.ErrNotFound for contacts of other users.
type ContactRepository interface {
	// GetContact returns the contact only if ownerID owns it
	GetContact(ctx context.Context, id, ownerID uuid.UUID) (*Contact, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Contact, int64, error)
	Save(ctx context.Context, c *Contact) error
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error
}
