package models

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ShopModel is the persistence model for the Shop aggregate root.
type ShopModel struct {
	AggregateModel
	Name   string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	URL    string     `gorm:"type:varchar(255)"`
	UserID *uuid.UUID `gorm:"type:uuid;index"`
	State  bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop
func (m *ShopModel) ToDomain() *catalog.Shop {
	return &catalog.Shop{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		URL:               m.URL,
		UserID:            m.UserID,
		State:             m.State,
	}
}

// FromDomain populates the persistence model from a domain Shop
func (m *ShopModel) FromDomain(s *catalog.Shop) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.URL = s.URL
	m.UserID = s.UserID
	m.State = s.State
}

// CategoryModel is the persistence model for categories.
type CategoryModel struct {
	BaseModel
	ExternalID int    `gorm:"not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(40);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		ExternalID: m.ExternalID,
		Name:       m.Name,
	}
}

// CategoryShopModel links a category to a shop selling in it.
type CategoryShopModel struct {
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (CategoryShopModel) TableName() string {
	return "category_shops"
}

// ProductModel is the persistence model for products.
type ProductModel struct {
	BaseModel
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_category_name,priority:1"`
	Name       string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_products_category_name,priority:2"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		CategoryID: m.CategoryID,
		Name:       m.Name,
	}
}

// ProductInfoModel is the persistence model for shop listings.
type ProductInfoModel struct {
	BaseModel
	ProductID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	ShopID     uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_product_infos_shop_external,priority:1"`
	ExternalID int                     `gorm:"not null;uniqueIndex:idx_product_infos_shop_external,priority:2"`
	Model      string                  `gorm:"type:varchar(80)"`
	Quantity   int                     `gorm:"not null;default:0"`
	Price      decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	PriceRRC   decimal.Decimal         `gorm:"column:price_rrc;type:decimal(12,2);not null"`
	Parameters []ProductParameterModel `gorm:"foreignKey:ProductInfoID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductInfoModel) TableName() string {
	return "product_infos"
}

// ToDomain converts the persistence model to a domain ProductInfo
func (m *ProductInfoModel) ToDomain() *catalog.ProductInfo {
	info := &catalog.ProductInfo{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		ShopID:     m.ShopID,
		ExternalID: m.ExternalID,
		Model:      m.Model,
		Quantity:   m.Quantity,
		Price:      m.Price,
		PriceRRC:   m.PriceRRC,
	}
	for _, p := range m.Parameters {
		info.Parameters = append(info.Parameters, catalog.ProductParameter{Name: p.Name, Value: p.Value})
	}
	return info
}

// FromDomain populates the persistence model from a domain ProductInfo
func (m *ProductInfoModel) FromDomain(p *catalog.ProductInfo) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ProductID = p.ProductID
	m.ShopID = p.ShopID
	m.ExternalID = p.ExternalID
	m.Model = p.Model
	m.Quantity = p.Quantity
	m.Price = p.Price
	m.PriceRRC = p.PriceRRC
	m.Parameters = make([]ProductParameterModel, len(p.Parameters))
	for i, param := range p.Parameters {
		m.Parameters[i] = ProductParameterModel{
			ID:            uuid.New(),
			ProductInfoID: p.ID,
			Name:          param.Name,
			Value:         param.Value,
		}
	}
}

// ProductParameterModel stores one named parameter of a listing.
type ProductParameterModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductInfoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_parameters_name,priority:1"`
	Name          string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_product_parameters_name,priority:2"`
	Value         string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ProductParameterModel) TableName() string {
	return "product_parameters"
}

// ProductInfoDetailRow is the scan target of the denormalized listing query.
type ProductInfoDetailRow struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	ShopID       uuid.UUID
	ExternalID   int
	Model        string
	Quantity     int
	Price        decimal.Decimal
	PriceRRC     decimal.Decimal
	ProductName  string
	CategoryID   uuid.UUID
	CategoryName string
	ShopName     string
	ShopState    bool
}

// ToDomain converts the row to a domain ProductInfoDetail
func (r *ProductInfoDetailRow) ToDomain() catalog.ProductInfoDetail {
	return catalog.ProductInfoDetail{
		ProductInfo: catalog.ProductInfo{
			BaseEntity: sharedEntity(r.ID),
			ProductID:  r.ProductID,
			ShopID:     r.ShopID,
			ExternalID: r.ExternalID,
			Model:      r.Model,
			Quantity:   r.Quantity,
			Price:      r.Price,
			PriceRRC:   r.PriceRRC,
		},
		ProductName:  r.ProductName,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		ShopName:     r.ShopName,
		ShopState:    r.ShopState,
	}
}
