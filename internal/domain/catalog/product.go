package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a shop-independent product identity
type Product struct {
	shared.BaseEntity
	CategoryID uuid.UUID
	Name       string
}

// NewProduct creates a product in a category
func NewProduct(categoryID uuid.UUID, name string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("product name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewValidationError("product category is required")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
	}, nil
}

// ProductParameter is a named attribute of a listing, e.g. "Color: black"
type ProductParameter struct {
	Name  string
	Value string
}

// ProductInfo is a shop-scoped listing of a product with its price and stock
type ProductInfo struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	ShopID     uuid.UUID
	ExternalID int
	Model      string
	Quantity   int
	Price      decimal.Decimal
	PriceRRC   decimal.Decimal
	Parameters []ProductParameter
}

// NewProductInfo creates a listing of productID in shopID
func NewProductInfo(productID, shopID uuid.UUID, externalID int, model string, quantity int, price, priceRRC decimal.Decimal) (*ProductInfo, error) {
	if productID == uuid.Nil || shopID == uuid.Nil {
		return nil, shared.NewValidationError("product info requires a product and a shop")
	}
	if quantity < 0 {
		return nil, shared.NewValidationError("quantity cannot be negative")
	}
	if price.IsNegative() || priceRRC.IsNegative() {
		return nil, shared.NewValidationError("price cannot be negative")
	}
	return &ProductInfo{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		ShopID:     shopID,
		ExternalID: externalID,
		Model:      model,
		Quantity:   quantity,
		Price:      price,
		PriceRRC:   priceRRC,
	}, nil
}

// AddParameter attaches a parameter, replacing any existing value with the same name
func (p *ProductInfo) AddParameter(name, value string) {
	for i := range p.Parameters {
		if p.Parameters[i].Name == name {
			p.Parameters[i].Value = value
			return
		}
	}
	p.Parameters = append(p.Parameters, ProductParameter{Name: name, Value: value})
}

// ChangePrice updates the current unit price
func (p *ProductInfo) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	p.Price = price
	p.Touch()
	return nil
}

// ProductInfoDetail is a denormalized read view of a listing
type ProductInfoDetail struct {
	ProductInfo
	ProductName  string
	CategoryID   uuid.UUID
	CategoryName string
	ShopName     string
	ShopState    bool
}
