package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Shop is a partner store that lists product infos. A shop whose State is
// false keeps its listings but accepts no new orders.
type Shop struct {
	shared.BaseAggregateRoot
	Name   string
	URL    string
	UserID *uuid.UUID
	State  bool
}

// NewShop creates a shop that accepts orders
func NewShop(name, url string) (*Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("shop name cannot be empty")
	}
	if len(name) > 50 {
		return nil, shared.NewValidationError("shop name cannot exceed 50 characters")
	}
	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		URL:               url,
		State:             true,
	}, nil
}

// AcceptsOrders reports whether the shop currently takes orders
func (s *Shop) AcceptsOrders() bool {
	return s.State
}

// SetState opens or closes the shop for orders
func (s *Shop) SetState(state bool) bool {
	if s.State == state {
		return false
	}
	s.State = state
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewShopStateChangedEvent(s))
	return true
}
