package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// ==================== Basket DTOs ====================

// AddItemRequest adds quantity of a listing to the caller's basket.
// Quantity is a pointer so a missing value can be told apart from zero.
type AddItemRequest struct {
	ProductInfoID uuid.UUID `json:"product_info_id" binding:"required"`
	Quantity      *int      `json:"quantity" binding:"required"`
}

// UpdateItemRequest sets the quantity of one basket line
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ==================== Order DTOs ====================

// ConfirmOrderRequest confirms a basket with a delivery contact
type ConfirmOrderRequest struct {
	BasketID  uuid.UUID `json:"basket_id" binding:"required"`
	ContactID uuid.UUID `json:"contact_id" binding:"required"`
}

// SetStatusRequest changes an order's status
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter holds listing parameters accepted from the query string
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// OrderItemResponse is one order line enriched with catalog data
type OrderItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductInfoID uuid.UUID        `json:"product_info_id"`
	ShopID        uuid.UUID        `json:"shop_id"`
	ShopName      string           `json:"shop_name,omitempty"`
	ProductName   string           `json:"product_name,omitempty"`
	Model         string           `json:"model,omitempty"`
	Quantity      int              `json:"quantity"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	LineTotal     *decimal.Decimal `json:"line_total,omitempty"`
	Available     bool             `json:"available"`
}

// OrderResponse is the read model for baskets and orders
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      string              `json:"status"`
	ContactID   *uuid.UUID          `json:"contact_id,omitempty"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	ItemCount   int                 `json:"item_count"`
	Items       []OrderItemResponse `json:"items"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderListResponse is one page of orders
type OrderListResponse struct {
	Items      []OrderResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ToOrderResponse builds the read model for o.
// Basket lines are priced live and lines whose listing has gone are marked
// unavailable and left out of the total. Confirmed lines keep the unit price
// they were confirmed at, so they always add up to the frozen total.
func ToOrderResponse(o *order.Order, details map[uuid.UUID]catalog.ProductInfoDetail) OrderResponse {
	prices := PriceBookFrom(details)
	resp := OrderResponse{
		ID:          o.ID,
		UserID:      o.OwnerID,
		Status:      o.Status.String(),
		ContactID:   o.ContactID,
		TotalPrice:  o.Total(prices),
		ItemCount:   o.ItemCount(),
		Items:       make([]OrderItemResponse, len(o.Items)),
		ConfirmedAt: o.ConfirmedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	for i, item := range o.Items {
		line := OrderItemResponse{
			ID:            item.ID,
			ProductInfoID: item.ProductInfoID,
			ShopID:        item.ShopID,
			Quantity:      item.Quantity,
		}
		if d, ok := details[item.ProductInfoID]; ok {
			line.ShopName = d.ShopName
			line.ProductName = d.ProductName
			line.Model = d.Model
			line.Available = true
		}
		if price, ok := o.LinePrice(item, prices); ok {
			lineTotal := order.LineTotal(price, item.Quantity)
			line.Price = &price
			line.LineTotal = &lineTotal
		}
		resp.Items[i] = line
	}
	return resp
}

// PriceBookFrom extracts current prices from catalog details
func PriceBookFrom(details map[uuid.UUID]catalog.ProductInfoDetail) order.PriceBook {
	prices := make(order.PriceBook, len(details))
	for id, d := range details {
		prices[id] = d.Price
	}
	return prices
}
