package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Category groups products. Categories are shared across shops and linked
// to the shops that sell in them.
type Category struct {
	shared.BaseEntity
	ExternalID int
	Name       string
	ShopIDs    []uuid.UUID
}

// NewCategory creates a category
func NewCategory(externalID int, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Name:       name,
	}, nil
}

// LinkShop records that shopID sells in this category
func (c *Category) LinkShop(shopID uuid.UUID) {
	for _, id := range c.ShopIDs {
		if id == shopID {
			return
		}
	}
	c.ShopIDs = append(c.ShopIDs, shopID)
}
