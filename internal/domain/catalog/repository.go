package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductInfoFilter narrows a catalog listing
type ProductInfoFilter struct {
	shared.Filter
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	// OnlyOpenShops hides listings of shops that do not accept orders
	OnlyOpenShops bool
}

// CatalogRepository is the read side the order core depends on
type CatalogRepository interface {
	// GetProductInfo returns a listing, or shared.ErrNotFound
	GetProductInfo(ctx context.Context, id uuid.UUID) (*ProductInfo, error)
	// GetProductInfoDetails returns denormalized views keyed by ID. Unknown IDs are omitted.
	GetProductInfoDetails(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductInfoDetail, error)
	// ShopAcceptsOrders reports the shop's state, or shared.ErrNotFound
	ShopAcceptsOrders(ctx context.Context, shopID uuid.UUID) (bool, error)
	// SearchProductInfos lists listings matching the filter
	SearchProductInfos(ctx context.Context, filter ProductInfoFilter) ([]ProductInfoDetail, int64, error)
}

// ShopRepository persists shops
type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	FindByName(ctx context.Context, name string) (*Shop, error)
	Save(ctx context.Context, shop *Shop) error
}

// ImportRepository writes a shop's price list
type ImportRepository interface {
	// SaveCategory upserts a category by external ID and links it to shopID
	SaveCategory(ctx context.Context, category *Category, shopID uuid.UUID) (*Category, error)
	// GetOrCreateProduct finds a product by (name, category) or creates it
	GetOrCreateProduct(ctx context.Context, product *Product) (*Product, error)
	// UpsertProductInfo inserts or updates the listing keyed by (shop, external ID)
	// and replaces its parameters. The stored listing is returned.
	UpsertProductInfo(ctx context.Context, info *ProductInfo) (*ProductInfo, error)
	// DeleteShopProductInfosExcept removes the shop's listings whose external
	// ID is not in keep
	DeleteShopProductInfosExcept(ctx context.Context, shopID uuid.UUID, keep []int) (int64, error)
}
