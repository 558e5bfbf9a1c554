package catalog

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ==================== Listing DTOs ====================

// ProductInfoListFilter holds listing parameters accepted from the query string.
// IDs and prices stay strings here and are parsed by the service so a
// malformed value becomes a validation error.
type ProductInfoListFilter struct {
	Search     string `form:"search"`
	ShopID     string `form:"shop_id"`
	CategoryID string `form:"category_id"`
	MinPrice   string `form:"min_price"`
	MaxPrice   string `form:"max_price"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// ProductParameterResponse is one named attribute of a listing
type ProductParameterResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductInfoResponse is a listing with its product, category and shop
type ProductInfoResponse struct {
	ID           uuid.UUID                  `json:"id"`
	ProductID    uuid.UUID                  `json:"product_id"`
	ProductName  string                     `json:"product_name"`
	CategoryID   uuid.UUID                  `json:"category_id"`
	CategoryName string                     `json:"category_name"`
	ShopID       uuid.UUID                  `json:"shop_id"`
	ShopName     string                     `json:"shop_name"`
	ShopState    bool                       `json:"shop_state"`
	ExternalID   int                        `json:"external_id"`
	Model        string                     `json:"model"`
	Quantity     int                        `json:"quantity"`
	Price        decimal.Decimal            `json:"price"`
	PriceRRC     decimal.Decimal            `json:"price_rrc"`
	Parameters   []ProductParameterResponse `json:"parameters,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
}

// ProductInfoListResponse is one page of listings
type ProductInfoListResponse struct {
	Items      []ProductInfoResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// ToProductInfoResponse converts a listing view to a response
func ToProductInfoResponse(d catalog.ProductInfoDetail) ProductInfoResponse {
	resp := ProductInfoResponse{
		ID:           d.ID,
		ProductID:    d.ProductID,
		ProductName:  d.ProductName,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		ShopID:       d.ShopID,
		ShopName:     d.ShopName,
		ShopState:    d.ShopState,
		ExternalID:   d.ExternalID,
		Model:        d.Model,
		Quantity:     d.Quantity,
		Price:        d.Price,
		PriceRRC:     d.PriceRRC,
		CreatedAt:    d.CreatedAt,
	}
	for _, p := range d.Parameters {
		resp.Parameters = append(resp.Parameters, ProductParameterResponse{Name: p.Name, Value: p.Value})
	}
	return resp
}

// ==================== Shop DTOs ====================

// SetShopStateRequest opens or closes a shop for orders
type SetShopStateRequest struct {
	State *bool `json:"state" binding:"required"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	URL   string    `json:"url,omitempty"`
	State bool      `json:"state"`
}

// ToShopResponse converts a shop to a response
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{ID: s.ID, Name: s.Name, URL: s.URL, State: s.State}
}

// ==================== Import DTOs ====================

// ImportGoodsRequest is a shop's complete price list
type ImportGoodsRequest struct {
	Shop       string           `json:"shop"`
	URL        string           `json:"url,omitempty"`
	Categories []ImportCategory `json:"categories"`
	Goods      []ImportGood     `json:"goods"`
}

// ImportCategory is a category as numbered by the shop
type ImportCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ImportGood is one listing of the price list. Category refers to an
// ImportCategory ID.
type ImportGood struct {
	ID         int               `json:"id"`
	Category   int               `json:"category"`
	Model      string            `json:"model"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	PriceRRC   decimal.Decimal   `json:"price_rrc"`
	Quantity   int               `json:"quantity"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// parameterNames returns the good's parameter names in a stable order
func (g ImportGood) parameterNames() []string {
	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImportGoodsResponse summarizes a finished import
type ImportGoodsResponse struct {
	ShopID       uuid.UUID `json:"shop_id"`
	ShopName     string    `json:"shop_name"`
	Categories   int       `json:"categories"`
	ProductInfos int       `json:"product_infos"`
	Removed      int64     `json:"removed"`
}
